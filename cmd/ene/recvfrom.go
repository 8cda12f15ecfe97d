package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ene-project/ene/crypto/keys"
	"github.com/ene-project/ene/format"
	"github.com/ene-project/ene/internal/logger"
)

var (
	recvSenderPubkey string
	recvForce        bool
	recvInput        string
	recvOutput       string
	recvAAD          string
)

var recvfromCmd = &cobra.Command{
	Use:   "recvfrom [sender-id]",
	Short: "Decrypt (or verify) a received envelope",
	Args:  cobra.MaximumNArgs(1),
	Example: `  # Decrypt from a stored contact
  ene recvfrom alice@core.ene --input letter.ene --output letter.txt

  # Trust the key embedded in the envelope
  ene recvfrom --force --input letter.ene`,
	RunE: runRecvfrom,
}

func init() {
	rootCmd.AddCommand(recvfromCmd)

	recvfromCmd.Flags().StringVar(&recvSenderPubkey, "sender-pubkey", "", "Path to the sender's PK envelope")
	recvfromCmd.Flags().BoolVar(&recvForce, "force", false, "Accept the sender key embedded in the envelope")
	recvfromCmd.Flags().StringVar(&recvInput, "input", "", "Envelope input path")
	recvfromCmd.Flags().StringVar(&recvOutput, "output", "", "Plaintext output path (default stdout)")
	recvfromCmd.Flags().StringVar(&recvAAD, "associated-data", "", "Associated data bound to the message")
	recvfromCmd.MarkFlagRequired("input")
}

// knownSenderKey resolves the locally trusted key for the envelope's sender:
// an explicit PK envelope file, a contact named on the command line, or the
// contact matching the envelope's sender identifier.
func knownSenderKey(meta *format.Meta, args []string) (*keys.PublicKeySet, error) {
	if recvSenderPubkey != "" {
		data, err := os.ReadFile(recvSenderPubkey)
		if err != nil {
			return nil, err
		}
		id, pk, err := format.DecodePublicKey(data)
		if err != nil {
			return nil, err
		}
		if id != meta.SenderID {
			warn("envelope sender %q does not match key file identity %q", meta.SenderID, id)
		}
		return pk, nil
	}

	lookup := meta.SenderID
	if len(args) > 0 {
		lookup = args[0]
		if lookup != meta.SenderID {
			return nil, fmt.Errorf("recvfrom: envelope sender is %q, not %q", meta.SenderID, lookup)
		}
	}

	store, err := openContacts()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	data, ok, err := store.Get(lookup)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	_, pk, err := format.DecodePublicKey(data)
	return pk, err
}

func runRecvfrom(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(recvInput)
	if err != nil {
		return err
	}
	meta, proto, payload, err := format.DecodeMessage(data)
	if err != nil {
		return err
	}

	known, err := knownSenderKey(meta, args)
	if err != nil {
		return err
	}
	switch {
	case known != nil:
		mismatch := func(slot string, own, got keys.Short) {
			warn("sender key mismatch in slot %s: known %s, envelope %s", slot, own, got)
		}
		if !known.Contains(meta.SenderKey, mismatch) && !recvForce {
			return errors.New("recvfrom: envelope sender key does not match the known key (use --force to override)")
		}
	case !recvForce:
		return fmt.Errorf("recvfrom: no known key for %q (import a contact or use --force)", meta.SenderID)
	}

	identity, err := openProfile()
	if err != nil {
		return err
	}
	defer identity.Zero()

	if meta.HasRecipient() {
		if meta.RecipientID != identity.ID() {
			warn("envelope is addressed to %q, profile is %q", meta.RecipientID, identity.ID())
		}
		mismatch := func(slot string, own, got keys.Short) {
			warn("recipient hint mismatch in slot %s: own %s, envelope %s", slot, own, got)
		}
		identity.Secret().Public().Short().Contains(meta.RecipientShort, mismatch)
	}

	log.Debug("receiving",
		logger.String("protocol", proto.String()),
		logger.String("from", meta.SenderID))

	plaintext, err := identity.And(meta.SenderID, meta.SenderKey).RecvFrom(proto, []byte(recvAAD), payload)
	if err != nil {
		return err
	}

	if recvOutput == "" {
		_, err = os.Stdout.Write(plaintext)
		return err
	}
	if err := os.WriteFile(recvOutput, plaintext, 0o600); err != nil {
		return err
	}
	info("message from %s written to %s", meta.SenderID, recvOutput)
	return nil
}
