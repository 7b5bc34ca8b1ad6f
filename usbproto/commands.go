package usbproto

// Command codes, the first payload byte of every request frame.
const (
	CmdPing         byte = 0x01
	CmdGetVersion   byte = 0x02
	CmdGetStatus    byte = 0x03
	CmdCreateWallet byte = 0x10
	CmdUnlock       byte = 0x11
	CmdLock         byte = 0x12
	CmdGetAddress   byte = 0x20
	CmdSignTx       byte = 0x21
)

// Status codes, the CODE byte of every response frame.
const (
	StatusOK          byte = 0x00
	StatusError       byte = 0x01
	StatusInvalidCmd  byte = 0x02
	StatusLocked      byte = 0x03
	StatusNeedConfirm byte = 0x04
)

// minCreateWalletPIN and minUnlockPIN are the request payload length
// floors the command table requires before a request even reaches the
// wallet: CREATE_WALLET demands a PIN of at least 32 bytes, UNLOCK only
// requires it be non-empty.
const (
	minCreateWalletPIN = 32
	minUnlockPIN       = 1
)

// txHashSize is the length of the hash SIGN_TX signs.
const txHashSize = 32
