package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/spectralops/kdbx/internal/logging"
)

var version = "dev"

var cli struct {
	LogLevel string `short:"l" help:"Application log level"`

	DumpXML struct {
		Path     string `arg name:"path" help:"Path to the .kdbx file"`
		Password string `optional name:"password" help:"Database password (falls back to KDBX_PASSWORD)"`
		Keyfile  string `optional name:"keyfile" help:"Path to a keyfile"`
	} `cmd help:"Dump the decoded inner XML payload"`

	DumpJSON struct {
		Path     string `arg name:"path" help:"Path to the .kdbx file"`
		Password string `optional name:"password" help:"Database password (falls back to KDBX_PASSWORD)"`
		Keyfile  string `optional name:"keyfile" help:"Path to a keyfile"`
	} `cmd help:"Dump the object model as JSON"`

	ShowDB struct {
		Path     string `arg name:"path" help:"Path to the .kdbx file"`
		Password string `optional name:"password" help:"Database password (falls back to KDBX_PASSWORD)"`
		Keyfile  string `optional name:"keyfile" help:"Path to a keyfile"`
	} `cmd help:"Print groups and entries in a human friendly tree"`

	ShowOTP struct {
		Path     string `arg name:"path" help:"Path to the .kdbx file"`
		Entry    string `arg name:"entry" help:"Entry title to read the otp field from"`
		Password string `optional name:"password" help:"Database password (falls back to KDBX_PASSWORD)"`
		Keyfile  string `optional name:"keyfile" help:"Path to a keyfile"`
	} `cmd help:"Print an entry's configured otp field (issuer/account/secret, not a live code)"`

	GetVersion struct {
		Path string `arg name:"path" help:"Path to the .kdbx file"`
	} `cmd help:"Print the file's format generation (KDB, KDBX3 or KDBX4)"`

	Rewrite struct {
		Path     string `arg name:"path" help:"Path to the .kdbx file"`
		Out      string `arg name:"out" help:"Output path"`
		Password string `optional name:"password" help:"Database password (falls back to KDBX_PASSWORD)"`
		Keyfile  string `optional name:"keyfile" help:"Path to a keyfile"`
	} `cmd help:"Decode and re-encode a database as KDBX4, unchanged"`

	PurgeHistory struct {
		Path     string `arg name:"path" help:"Path to the .kdbx file"`
		Out      string `arg name:"out" help:"Output path"`
		Password string `optional name:"password" help:"Database password (falls back to KDBX_PASSWORD)"`
		Keyfile  string `optional name:"keyfile" help:"Path to a keyfile"`
	} `cmd help:"Drop every entry's history snapshots and re-save"`

	YkAdd struct {
		Slot int `arg name:"slot" help:"YubiKey challenge-response slot"`
	} `cmd help:"Register a YubiKey slot for challenge-response (placeholder)"`

	YkRemove struct {
		Slot int `arg name:"slot" help:"YubiKey challenge-response slot"`
	} `cmd help:"Remove a previously registered YubiKey slot (placeholder)"`

	YkRecover struct {
		Path string `arg name:"path" help:"Path to the .kdbx file"`
	} `cmd help:"Recover database access after a lost YubiKey (placeholder)"`

	Version struct {
	} `cmd help:"Print the kdbx tool version"`
}

const defaultLogLevel = "error"

func main() {
	ctx := kong.Parse(&cli)

	logger := logging.GetRoot()
	level := defaultLogLevel
	if cli.LogLevel != "" {
		level = cli.LogLevel
	}
	logger.SetLevel(level)

	var err error
	switch ctx.Command() {
	case "version":
		fmt.Printf("kdbx %s\n", version)
		return
	case "dump-xml <path>":
		err = runDumpXML(logger, cli.DumpXML.Path, cli.DumpXML.Password, cli.DumpXML.Keyfile)
	case "dump-json <path>":
		err = runDumpJSON(logger, cli.DumpJSON.Path, cli.DumpJSON.Password, cli.DumpJSON.Keyfile)
	case "show-db <path>":
		err = runShowDB(logger, cli.ShowDB.Path, cli.ShowDB.Password, cli.ShowDB.Keyfile)
	case "show-otp <path> <entry>":
		err = runShowOTP(logger, cli.ShowOTP.Path, cli.ShowOTP.Entry, cli.ShowOTP.Password, cli.ShowOTP.Keyfile)
	case "get-version <path>":
		err = runGetVersion(logger, cli.GetVersion.Path)
	case "rewrite <path> <out>":
		err = runRewrite(logger, cli.Rewrite.Path, cli.Rewrite.Out, cli.Rewrite.Password, cli.Rewrite.Keyfile)
	case "purge-history <path> <out>":
		err = runPurgeHistory(logger, cli.PurgeHistory.Path, cli.PurgeHistory.Out, cli.PurgeHistory.Password, cli.PurgeHistory.Keyfile)
	case "yk-add <slot>":
		err = runYkAdd(logger, cli.YkAdd.Slot)
	case "yk-remove <slot>":
		err = runYkRemove(logger, cli.YkRemove.Slot)
	case "yk-recover <path>":
		err = runYkRecover(logger, cli.YkRecover.Path)
	default:
		err = fmt.Errorf("unrecognized command %q", ctx.Command())
	}

	if err != nil {
		logger.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func passwordFor(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("KDBX_PASSWORD")
}
