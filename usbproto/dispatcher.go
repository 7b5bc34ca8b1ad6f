package usbproto

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/libreciph/walletcore/wallet"
)

// version is the firmware version GET_VERSION reports.
var version = [3]byte{1, 0, 0}

// Dispatcher applies request frames to a wallet.Wallet and produces the
// matching response frame. It holds no state of its own beyond the
// wallet reference; the wallet's own mutex serializes concurrent use.
type Dispatcher struct {
	w *wallet.Wallet
}

// NewDispatcher returns a Dispatcher backed by w.
func NewDispatcher(w *wallet.Wallet) *Dispatcher {
	return &Dispatcher{w: w}
}

// Dispatch applies one request frame and returns the response frame.
// Dispatch never panics on a malformed payload; it maps every wallet
// error and payload shape mismatch to a response status byte rather than
// propagating a Go error, since a misbehaving or malicious host is an
// expected peer, not a programming error.
func (d *Dispatcher) Dispatch(req Frame) Frame {
	switch req.Code {
	case CmdPing:
		return ok([]byte("PONG"))

	case CmdGetVersion:
		return ok(version[:])

	case CmdGetStatus:
		return ok([]byte{byte(d.w.Status())})

	case CmdCreateWallet:
		if len(req.Payload) < minCreateWalletPIN {
			return fail(StatusError)
		}
		if err := d.w.Create(req.Payload); err != nil {
			return statusForErr(err)
		}
		return ok(nil)

	case CmdUnlock:
		if len(req.Payload) < minUnlockPIN {
			return fail(StatusError)
		}
		if err := d.w.Unlock(req.Payload); err != nil {
			return statusForErr(err)
		}
		return ok(nil)

	case CmdLock:
		d.w.Lock()
		return ok(nil)

	case CmdGetAddress:
		if len(req.Payload) != 4 {
			return fail(StatusError)
		}
		account := binary.LittleEndian.Uint32(req.Payload)
		addr, err := d.w.GetAddress(account)
		if err != nil {
			return statusForErr(err)
		}
		return ok([]byte(addr))

	case CmdSignTx:
		if len(req.Payload) != txHashSize+4 {
			return fail(StatusError)
		}
		hash := req.Payload[:txHashSize]
		account := binary.LittleEndian.Uint32(req.Payload[txHashSize:])
		sig, err := d.w.Sign(hash, account)
		if err != nil {
			return statusForErr(err)
		}
		return ok(sig)

	default:
		return fail(StatusInvalidCmd)
	}
}

func ok(data []byte) Frame {
	return Frame{Code: StatusOK, Payload: data}
}

func fail(status byte) Frame {
	return Frame{Code: status, Payload: nil}
}

// statusForErr maps a wallet precondition error to its response status;
// anything unrecognized becomes a generic ERROR status.
func statusForErr(err error) Frame {
	switch {
	case errors.Is(err, wallet.ErrLocked), errors.Is(err, wallet.ErrNotLocked):
		return fail(StatusLocked)
	default:
		return fail(StatusError)
	}
}

// Serve reads request frames off r and writes the dispatched response to
// w until r returns an error (including io.EOF, which Serve treats as a
// clean shutdown and returns nil for).
func Serve(r io.Reader, w io.Writer, d *Dispatcher) error {
	recv := NewReceiver()
	buf := make([]byte, 1)

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		frame := recv.Push(buf[0])
		if frame == nil {
			continue
		}

		resp := d.Dispatch(*frame)
		out := Encode(resp.Code, resp.Payload)
		n, err := w.Write(out)
		if err != nil {
			return err
		}
		if n != len(out) {
			return ErrShortWrite
		}
	}
}
