package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ene-project/ene"
	"github.com/ene-project/ene/crypto/keys"
	"github.com/ene-project/ene/internal/logger"
	"github.com/ene-project/ene/internal/memutil"
	"github.com/ene-project/ene/profile"
)

var (
	infoColor = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

func info(format string, args ...interface{}) {
	if quiet {
		return
	}
	infoColor.Fprintf(os.Stdout, format+"\n", args...)
}

func warn(format string, args ...interface{}) {
	warnColor.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// askpass obtains a password: through the program named by ENE_ASKPASS (or
// the config askpass entry), or interactively without echo. The caller must
// wipe the returned bytes.
func askpass(prompt string) ([]byte, error) {
	prog := os.Getenv("ENE_ASKPASS")
	if prog == "" {
		prog = cfg.Askpass
	}
	if prog != "" {
		out, err := exec.Command(prog, prompt).Output()
		if err != nil {
			return nil, fmt.Errorf("askpass %q: %w", prog, err)
		}
		return []byte(strings.TrimRight(string(out), "\r\n")), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pass, nil
}

// askpassConfirm prompts twice and requires both entries to match.
func askpassConfirm(prompt string) ([]byte, error) {
	pass, err := askpass(prompt)
	if err != nil {
		return nil, err
	}
	again, err := askpass("Confirm: ")
	if err != nil {
		memutil.Wipe(pass)
		return nil, err
	}
	defer memutil.Wipe(again)
	if !bytes.Equal(pass, again) {
		memutil.Wipe(pass)
		return nil, errors.New("passwords do not match")
	}
	return pass, nil
}

// resolveProfilePath applies flag > config > default precedence.
func resolveProfilePath() (string, error) {
	if profilePath != "" {
		return profilePath, nil
	}
	if cfg.Profile != "" {
		return cfg.Profile, nil
	}
	return profile.DefaultPath()
}

// openProfile reads the sealed profile, prompts for its password, and
// returns the loaded identity. The caller must Zero it.
func openProfile() (*ene.Ene, error) {
	path, err := resolveProfilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	pass, err := askpass("Password: ")
	if err != nil {
		return nil, err
	}
	defer memutil.Wipe(pass)

	log.Debug("opening profile", logger.String("path", path))
	id, sk, err := profile.Open(pass, data)
	if err != nil {
		return nil, err
	}
	return ene.New(id, sk), nil
}

// printShortSet renders a fingerprint set one slot per line.
func printShortSet(sp *keys.ShortPublicKeySet) {
	line := func(name string, s *keys.Short) {
		if s != nil {
			info("  %s: %s", name, s)
		}
	}
	line(keys.Ed25519Name, sp.Ed25519)
	line(keys.RistrettoDHName, sp.RistrettoDH)
	line(keys.KyberName, sp.Kyber)
}
