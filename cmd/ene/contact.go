package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ene-project/ene/contacts"
	"github.com/ene-project/ene/format"
)

var (
	contactList   bool
	contactID     string
	contactImport string
	contactExport string
	contactDelete bool
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage the contact directory",
	Example: `  # List all contacts
  ene contact --list

  # List contacts with a prefix
  ene contact --list alice

  # Import a PK envelope
  ene contact --import bob.ene

  # Export / delete a contact
  ene contact --export bob-copy.ene --id bob@core.ene
  ene contact --delete --id bob@core.ene`,
	RunE: runContact,
}

func init() {
	rootCmd.AddCommand(contactCmd)

	contactCmd.Flags().BoolVar(&contactList, "list", false, "List contacts, optionally filtered by a prefix argument")
	contactCmd.Flags().StringVar(&contactID, "id", "", "Contact identifier")
	contactCmd.Flags().StringVarP(&contactImport, "import", "i", "", "Import a PK envelope from the given path")
	contactCmd.Flags().StringVarP(&contactExport, "export", "e", "", "Export a contact's PK envelope to the given path")
	contactCmd.Flags().BoolVarP(&contactDelete, "delete", "d", false, "Delete the contact named by --id")
}

func openContacts() (*contacts.Store, error) {
	dir, err := contacts.DefaultDir()
	if err != nil {
		return nil, err
	}
	return contacts.Open(dir)
}

func runContact(cmd *cobra.Command, args []string) error {
	store, err := openContacts()
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case contactList:
		prefix := ""
		if len(args) > 0 {
			prefix = args[0]
		}
		return contactDoList(store, prefix)
	case contactImport != "":
		return contactDoImport(store, contactImport)
	case contactExport != "":
		return contactDoExport(store, contactExport)
	case contactDelete:
		return contactDoDelete(store)
	default:
		return errors.New("contact: one of --list, --import, --export, --delete is required")
	}
}

func contactDoList(store *contacts.Store, prefix string) error {
	entries, err := store.Scan(prefix)
	if err != nil {
		return err
	}
	for _, e := range entries {
		id, pk, err := format.DecodePublicKey(e.Data)
		if err != nil {
			warn("skipping unreadable entry %q: %v", e.ID, err)
			continue
		}
		info("%s", id)
		printShortSet(pk.Short())
	}
	return nil
}

func contactDoImport(store *contacts.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	id, _, err := format.DecodePublicKey(data)
	if err != nil {
		return err
	}
	if err := store.Put(id, data); err != nil {
		return err
	}
	info("imported %s", id)
	return nil
}

func contactDoExport(store *contacts.Store, path string) error {
	if contactID == "" {
		return errors.New("contact: --export requires --id")
	}
	data, ok, err := store.Get(contactID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("contact: no entry for %q", contactID)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	info("exported %s to %s", contactID, path)
	return nil
}

func contactDoDelete(store *contacts.Store) error {
	if contactID == "" {
		return errors.New("contact: --delete requires --id")
	}
	if err := store.Delete(contactID); err != nil {
		return err
	}
	info("deleted %s", contactID)
	return nil
}
