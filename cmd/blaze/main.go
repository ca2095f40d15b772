// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main implements the blaze CLI's resolve subcommand: a minimal
// debug surface that runs one resolve-or-update cycle for a single executor
// reference and prints the result, enough to exercise the resolution
// subsystem end to end without the rest of an orchestrator.
//
// Usage:
//
//	blaze resolve <url> [--workspace DIR] [--location VARIANT]
//	              [--checkout branch:<n>|tag:<n>|revision:<n>] [--path SUBPATH]
//	              [--pull] [--kind node|rust|kotlin]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"
	"github.com/schollz/progressbar/v3"

	"github.com/kraklabs/blaze/internal/ui"
	"github.com/kraklabs/blaze/internal/workspace"
	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/resolve/gitresolver"
	"gopkg.in/yaml.v3"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		verbose     = flag.CountP("verbose", "v", "Increase verbosity (-v for info, -vv for debug)")
	)
	flag.SetInterspersed(false)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `blaze - executor resolution debug CLI

Usage:
  blaze resolve <url> [options]

Options:
  --workspace DIR     Workspace root (default: current directory)
  --location VARIANT  local_file_system|git|git_over_http|git_over_ssh
  --checkout PIN       branch:<name> | tag:<name> | revision:<rev>
  --path SUBPATH       Subdirectory within a git checkout to use as src
  --pull               Fetch and fast-forward on update instead of keeping
  --kind KIND          Override kind inference: node|rust|kotlin
  --token TOKEN        Bearer token for git_over_http / npm / cargo
  --ssh-key PATH       SSH private key path for git_over_ssh

`)
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("blaze version %s (%s)\n", version, commit)
		os.Exit(0)
	}

	ui.InitColors(*noColor)

	level := slog.LevelWarn
	if *verbose == 1 {
		level = slog.LevelInfo
	} else if *verbose >= 2 {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) == 0 || args[0] != "resolve" {
		flag.Usage()
		os.Exit(1)
	}

	if err := runResolve(args[1:]); err != nil {
		ui.Errorf("%v", err)
		os.Exit(1)
	}
}

func runResolve(args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	workspaceRoot := fs.String("workspace", ".", "Workspace root")
	location := fs.String("location", "", "Location variant (defaults to scheme inference)")
	checkout := fs.String("checkout", "", "branch:<name> | tag:<name> | revision:<rev>")
	subpath := fs.String("path", "", "Subdirectory within a git checkout to use as src")
	pull := fs.Bool("pull", false, "Fetch and fast-forward on update")
	kind := fs.String("kind", "", "Override kind inference: node|rust|kotlin")
	token := fs.String("token", "", "Bearer token for git_over_http / npm / cargo")
	sshKey := fs.String("ssh-key", "", "SSH private key path for git_over_ssh")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("resolve requires exactly one reference url")
	}
	url := fs.Arg(0)

	ref, err := buildReference(url, *location, *checkout, *subpath, *pull, *kind, *token, *sshKey)
	if err != nil {
		return err
	}

	bar := progressbar.DefaultBytes(-1, "resolving "+url)
	defer bar.Close()
	gitresolver.DefaultProgress = bar

	ws, err := workspace.New(*workspaceRoot, workspace.GlobalOptions{Logger: slog.Default()})
	if err != nil {
		return err
	}

	result, err := ws.Run(context.Background(), workspace.RunOptions{Name: url, Reference: ref})
	if err != nil {
		return err
	}
	_ = bar.Finish()

	ui.Header("Resolved " + url)
	fmt.Printf("%s %s\n", ui.Label("Kind:"), result.LoadMetadata.Kind)
	fmt.Printf("%s %s\n", ui.Label("Src:"), ui.DimText(result.LoadMetadata.Src))

	out, err := yaml.Marshal(map[string]any{
		"kind": result.LoadMetadata.Kind.String(),
		"src":  result.LoadMetadata.Src,
	})
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	ui.Success("done")
	return nil
}

func buildReference(url, location, checkout, subpath string, pull bool, kind, token, sshKey string) (executor.Reference, error) {
	if location == "" {
		return executor.NewStandardReference(url), nil
	}

	var pin executor.CheckoutPin
	if checkout != "" {
		p, err := parsePin(checkout)
		if err != nil {
			return executor.Reference{}, err
		}
		pin = p
	}
	auth := executor.AuthDescriptor{Token: token, SSHKeyPath: sshKey}
	k := executor.Kind(kind)

	var loc executor.Location
	switch location {
	case "local_file_system":
		loc = executor.NewLocalFileSystem(executor.FileSystemOptions{Kind: k, RebuildStrategy: executor.RebuildOnChanges})
	case "git":
		loc = executor.NewGit(executor.GitOptions{Checkout: pin, Kind: k, Path: subpath, Pull: pull})
	case "git_over_http":
		loc = executor.NewGitOverHTTP(executor.GitHTTPOptions{Checkout: pin, Auth: auth, Kind: k, Path: subpath, Pull: pull})
	case "git_over_ssh":
		loc = executor.NewGitOverSSH(executor.GitSSHOptions{Checkout: pin, Auth: auth, Kind: k, Path: subpath, Pull: pull})
	default:
		return executor.Reference{}, fmt.Errorf("unsupported --location %q", location)
	}
	return executor.NewCustomReference(url, loc), nil
}

func parsePin(s string) (executor.CheckoutPin, error) {
	for prefix, build := range map[string]func(string) executor.CheckoutPin{
		"branch:":   executor.BranchPin,
		"tag:":      executor.TagPin,
		"revision:": executor.RevisionPin,
	} {
		if len(s) > len(prefix) && s[:len(prefix)] == prefix {
			return build(s[len(prefix):]), nil
		}
	}
	return executor.CheckoutPin{}, fmt.Errorf("checkout %q must be branch:/tag:/revision:<name>", s)
}
