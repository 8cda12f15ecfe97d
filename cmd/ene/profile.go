package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ene-project/ene"
	"github.com/ene-project/ene/alg"
	"github.com/ene-project/ene/format"
	"github.com/ene-project/ene/internal/memutil"
	"github.com/ene-project/ene/profile"
)

var (
	profileInitID        string
	profileChoosePubkey  string
	profileChooseEncrypt string
	profileExportPubkey  string
	profileExportPrivkey string
	profileImportPath    string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Create, import, and export the sealed profile",
	Example: `  # Initialize a profile with the default slots
  ene profile --init alice@core.ene

  # Initialize with an explicit slot choice
  ene profile --init alice@core.ene --choose-pubkey ed25519,ristrettodh,kyber

  # Export the public key for a contact
  ene profile --export-pubkey alice.ene`,
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVar(&profileInitID, "init", "", "Generate a new profile for the given identifier")
	profileCmd.Flags().StringVar(&profileChoosePubkey, "choose-pubkey", "", "Comma-separated algorithm slots (default ed25519,ristrettodh)")
	profileCmd.Flags().StringVar(&profileChooseEncrypt, "choose-encrypt", string(alg.EncryptAes128Colm0), "AEAD used to seal the profile")
	profileCmd.Flags().StringVar(&profileExportPubkey, "export-pubkey", "", "Write the PK envelope to the given path")
	profileCmd.Flags().StringVar(&profileExportPrivkey, "export-privkey", "", "Copy the sealed SK envelope to the given path")
	profileCmd.Flags().StringVarP(&profileImportPath, "import", "i", "", "Install a sealed SK envelope as the profile")
}

func runProfile(cmd *cobra.Command, args []string) error {
	switch {
	case profileInitID != "":
		return profileInit()
	case profileExportPubkey != "":
		return profileDoExportPubkey(profileExportPubkey)
	case profileExportPrivkey != "":
		return profileDoExportPrivkey(profileExportPrivkey)
	case profileImportPath != "":
		return profileDoImport(profileImportPath)
	default:
		return errors.New("profile: one of --init, --export-pubkey, --export-privkey, --import is required")
	}
}

func profileInit() error {
	path, err := resolveProfilePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("profile already exists at %s", path)
	}

	builder := ene.DefaultBuilder()
	if profileChoosePubkey != "" {
		if builder, err = ene.ParseBuilder(profileChoosePubkey); err != nil {
			return err
		}
	}
	enc, err := alg.ParseEncryptName(profileChooseEncrypt)
	if err != nil {
		return err
	}

	identity, err := builder.Generate(profileInitID, rand.Reader)
	if err != nil {
		return err
	}
	defer identity.Zero()

	pass, err := askpassConfirm("Password: ")
	if err != nil {
		return err
	}
	defer memutil.Wipe(pass)

	sealed, err := profile.Seal(rand.Reader, enc, identity.ID(), pass, identity.Secret())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(path, sealed, 0o600); err != nil {
		return err
	}

	info("Profile successfully initialized")
	info("uid: %s", identity.ID())
	info("pub:")
	printShortSet(identity.Secret().Public().Short())
	return nil
}

func profileDoExportPubkey(path string) error {
	identity, err := openProfile()
	if err != nil {
		return err
	}
	defer identity.Zero()

	if st, err := os.Stat(path); err == nil && st.IsDir() {
		path = filepath.Join(path, identity.ID()+".ene")
	}

	data, err := format.EncodePublicKey(identity.ID(), identity.Secret().Public())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	info("PublicKey has been exported to %s", path)
	return nil
}

func profileDoExportPrivkey(path string) error {
	src, err := resolveProfilePath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}

	if st, err := os.Stat(path); err == nil && st.IsDir() {
		id, _, _, _, err := format.DecodePrivateKey(data)
		if err != nil {
			return err
		}
		path = filepath.Join(path, id+".ene")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite %s", path)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	info("PrivateKey has been exported to %s", path)
	return nil
}

func profileDoImport(src string) error {
	dst, err := resolveProfilePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("profile already exists at %s", dst)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	// Sanity-check the envelope before installing it.
	if _, _, _, _, err := format.DecodePrivateKey(data); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		return err
	}
	info("import successful")
	return nil
}
