// walletd is a device-simulator binary: it runs the secure-boot verifier
// against an in-memory flash image, then serves the framed USB protocol
// over an in-memory host/device loop until interrupted.
//
// Usage:
//
//	walletd
//
// It logs boot status and frame dispatch at info level via
// github.com/pion/logging and exits 1 if boot verification fails.
package main

import (
	"bytes"
	"os"
	"os/signal"
	"syscall"

	"github.com/pion/logging"

	"github.com/libreciph/walletcore/crypto/ed25519"
	"github.com/libreciph/walletcore/crypto/sha256"
	"github.com/libreciph/walletcore/flash"
	"github.com/libreciph/walletcore/secureboot"
	"github.com/libreciph/walletcore/usbloop"
	"github.com/libreciph/walletcore/usbproto"
	"github.com/libreciph/walletcore/wallet"
)

// devSigningSeed derives the demo firmware signing key. A real deployment
// bakes a production public key into the bootloader binary instead.
var devSigningSeed = bytes.Repeat([]byte{0x42}, ed25519.SeedSize)

func main() {
	factory := logging.NewDefaultLoggerFactory()
	log := factory.NewLogger("walletd")

	region := flash.NewFake(secureboot.RollbackOffset + 4096 + 64*1024)
	pub, err := provisionDemoFirmware(region)
	if err != nil {
		log.Errorf("provisioning demo firmware failed: %v", err)
		os.Exit(1)
	}

	outcome := secureboot.Verify(region, pub, log)
	if outcome.Recovery {
		log.Errorf("boot verification failed: %s, entering recovery", outcome.Status)
		os.Exit(1)
	}
	log.Infof("boot verification OK, entry=%#x", outcome.Entry)

	w := wallet.New()
	dispatcher := usbproto.NewDispatcher(w)

	loop := usbloop.New()
	defer loop.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- usbproto.Serve(loop.DeviceConn(), loop.DeviceConn(), dispatcher)
	}()
	log.Infof("device ready, serving protocol frames over the in-memory USB loop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Errorf("protocol server stopped: %v", err)
		}
	case <-sigCh:
		log.Infof("shutting down")
	}
}

// provisionDemoFirmware writes a minimal signed firmware image into
// region and returns the public key Verify should check it against.
func provisionDemoFirmware(region *flash.Fake) (ed25519.PublicKey, error) {
	pub, priv, err := ed25519.NewKeyFromSeed(devSigningSeed)
	if err != nil {
		return nil, err
	}

	body := bytes.Repeat([]byte("walletd demo firmware payload "), 64)
	digest := sha256.Sum256(body)
	sig, err := ed25519.Sign(priv, digest[:])
	if err != nil {
		return nil, err
	}

	raw := make([]byte, 256)
	putU32 := func(off int, v uint32) {
		raw[off] = byte(v)
		raw[off+1] = byte(v >> 8)
		raw[off+2] = byte(v >> 16)
		raw[off+3] = byte(v >> 24)
	}
	const headerMagic = 0x4C435746
	putU32(0, headerMagic)
	putU32(4, 1) // version
	putU32(8, uint32(len(body)))
	putU32(12, secureboot.FirmwareOffset)
	copy(raw[16:48], digest[:])
	copy(raw[48:112], sig)
	putU32(112, 1) // rollback counter

	if err := region.Program(secureboot.HeaderOffset, raw); err != nil {
		return nil, err
	}
	if err := flash.ProgramAll(region, secureboot.FirmwareOffset, body); err != nil {
		return nil, err
	}

	return pub, nil
}
