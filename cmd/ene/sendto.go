package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ene-project/ene/alg"
	"github.com/ene-project/ene/crypto/keys"
	"github.com/ene-project/ene/format"
	"github.com/ene-project/ene/internal/logger"
)

var (
	sendRecipientPubkey string
	sendInput           string
	sendOutput          string
	sendProtocol        string
	sendAAD             string
)

var sendtoCmd = &cobra.Command{
	Use:   "sendto [recipient-id]",
	Short: "Encrypt a file for a recipient",
	Args:  cobra.MaximumNArgs(1),
	Example: `  # Encrypt for a stored contact
  ene sendto bob@core.ene --input letter.txt --output letter.ene

  # Encrypt for a raw PK envelope with explicit protocol and aad
  ene sendto --recipient-pubkey bob.ene --input letter.txt --output letter.ene \
      --protocol ooake-ristrettodh-aes128colm0 --associated-data "Alice Send to Bob"`,
	RunE: runSendto,
}

func init() {
	rootCmd.AddCommand(sendtoCmd)

	sendtoCmd.Flags().StringVar(&sendRecipientPubkey, "recipient-pubkey", "", "Path to the recipient's PK envelope")
	sendtoCmd.Flags().StringVar(&sendInput, "input", "", "Plaintext input path")
	sendtoCmd.Flags().StringVar(&sendOutput, "output", "", "Envelope output path")
	sendtoCmd.Flags().StringVar(&sendProtocol, "protocol", "", "Protocol name (default "+alg.DefaultProtocolName+")")
	sendtoCmd.Flags().StringVar(&sendAAD, "associated-data", "", "Associated data bound to the message")
	sendtoCmd.MarkFlagRequired("input")
	sendtoCmd.MarkFlagRequired("output")
}

// resolveProtocol applies flag > config > built-in default precedence.
func resolveProtocol(name string) (alg.Protocol, error) {
	if name == "" {
		name = cfg.DefaultProtocol
	}
	if name == "" {
		name = alg.DefaultProtocolName
	}
	return alg.Parse(name)
}

// resolveRecipient loads the recipient's identity and key set from a PK
// envelope file or the contact directory.
func resolveRecipient(args []string) (string, *keys.PublicKeySet, error) {
	if sendRecipientPubkey != "" {
		data, err := os.ReadFile(sendRecipientPubkey)
		if err != nil {
			return "", nil, err
		}
		return decodeContact(data, args)
	}
	if len(args) == 0 {
		return "", nil, errors.New("sendto: a recipient id or --recipient-pubkey is required")
	}

	store, err := openContacts()
	if err != nil {
		return "", nil, err
	}
	defer store.Close()

	data, ok, err := store.Get(args[0])
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, fmt.Errorf("sendto: no contact %q", args[0])
	}
	return decodeContact(data, args)
}

func decodeContact(data []byte, args []string) (string, *keys.PublicKeySet, error) {
	id, pk, err := format.DecodePublicKey(data)
	if err != nil {
		return "", nil, err
	}
	if len(args) > 0 && args[0] != id {
		return "", nil, fmt.Errorf("sendto: envelope identifier %q does not match %q", id, args[0])
	}
	return id, pk, nil
}

func runSendto(cmd *cobra.Command, args []string) error {
	proto, err := resolveProtocol(sendProtocol)
	if err != nil {
		return err
	}

	recipientID, recipientKey, err := resolveRecipient(args)
	if err != nil {
		return err
	}

	message, err := os.ReadFile(sendInput)
	if err != nil {
		return err
	}

	identity, err := openProfile()
	if err != nil {
		return err
	}
	defer identity.Zero()

	log.Debug("sending",
		logger.String("protocol", proto.String()),
		logger.String("to", recipientID),
		logger.Int("bytes", len(message)))

	envelope, err := identity.And(recipientID, recipientKey).SendTo(proto, []byte(sendAAD), message)
	if err != nil {
		return err
	}
	if err := os.WriteFile(sendOutput, envelope, 0o644); err != nil {
		return err
	}
	info("message for %s written to %s", recipientID, sendOutput)
	return nil
}
