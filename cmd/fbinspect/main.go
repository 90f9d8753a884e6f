// Command fbinspect prints the root, vtable and field layout of a finished
// buffer and, given descriptors, its decoded tree.
//
//	fbinspect [-config file.toml] [-schema schema.json] [-root Table]
//	          [-size-prefixed] [-identifier XXXX] <buffer-file>
//	fbinspect -demo out.bin
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/logging"
	"github.com/quickwritereader/flatpack/namespace"
	"github.com/quickwritereader/flatpack/schema"
	"github.com/quickwritereader/flatpack/types"
	"github.com/rs/zerolog/log"
)

var errUsage = errors.New("usage: fbinspect [flags] <buffer-file> | fbinspect -demo out.bin")

func main() {
	logging.ConfigureRuntime()
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Error().Err(err).Msg("fbinspect failed")
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("fbinspect", flag.ContinueOnError)
	configPath := fs.String("config", "", "toml config file")
	schemaPath := fs.String("schema", "", "JSON descriptor file (default: built-in namespace fixtures)")
	root := fs.String("root", "", "root table name")
	sizePrefixed := fs.Bool("size-prefixed", false, "buffer starts with a 4-byte size prefix")
	identifier := fs.String("identifier", "", "expected 4-byte file identifier")
	demo := fs.String("demo", "", "write a sample buffer to this path and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "schema":
			cfg.Schema = *schemaPath
		case "root":
			cfg.Root = *root
		case "size-prefixed":
			cfg.SizePrefixed = *sizePrefixed
		case "identifier":
			cfg.Identifier = *identifier
		}
	})
	if err := cfg.validate(); err != nil {
		return err
	}

	if *demo != "" {
		return writeDemo(cfg, *demo)
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	buf, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read buffer: %w", err)
	}
	return inspect(cfg, buf, stdout)
}

// writeDemo packs the namespace fixture chain with the configured builder.
func writeDemo(cfg Config, path string) error {
	tree := &namespace.SecondTableInAT{ReferToC: &namespace.TableInCT{
		ReferToA1: &namespace.TableInFirstNST{
			FooTable:  &namespace.TableInNestedNST{Foo: 1234},
			FooEnum:   namespace.EnumInNestedNSB,
			FooStruct: &namespace.StructInNestedNST{A: 1, B: 2},
		},
		ReferToA2: &namespace.SecondTableInAT{},
	}}

	b := cfg.newBuilder()
	off := tree.Pack(b)
	var fid []byte
	if cfg.Identifier != "" {
		fid = []byte(cfg.Identifier)
	}
	switch {
	case cfg.SizePrefixed && fid != nil:
		b.FinishSizePrefixedWithFileIdentifier(off, fid)
	case cfg.SizePrefixed:
		b.FinishSizePrefixed(off)
	case fid != nil:
		b.FinishWithFileIdentifier(off, fid)
	default:
		b.Finish(off)
	}
	buf := b.FinishedBytes()
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write demo: %w", err)
	}
	log.Info().Str("path", path).Int("bytes", len(buf)).Int("vtables", b.VtableCount()).Msg("demo buffer written")
	return nil
}

// checkTable verifies that the soffset and the vtable it points at lie inside
// the buffer, so the reads that follow cannot go out of range.
func checkTable(tab access.Table) error {
	n := int64(len(tab.Bytes))
	pos := int64(tab.Pos)
	if pos+types.SizeSOffsetT > n {
		return fmt.Errorf("root position %d outside %d-byte buffer", tab.Pos, n)
	}
	vt := pos - int64(tab.GetSOffsetT(tab.Pos))
	if vt < 0 || vt+2*types.SizeVOffsetT > n {
		return fmt.Errorf("vtable position %d outside %d-byte buffer", vt, n)
	}
	size := int64(tab.VtableSize())
	if size < 2*types.SizeVOffsetT || size%types.SizeVOffsetT != 0 || vt+size > n {
		return fmt.Errorf("vtable at %d with size %d does not fit %d-byte buffer", vt, size, n)
	}
	return nil
}

func inspect(cfg Config, buf []byte, w io.Writer) error {
	var (
		tab  access.Table
		base int
	)
	if cfg.SizePrefixed {
		if len(buf) < types.SizePrefixLength+types.SizeUOffsetT {
			return fmt.Errorf("buffer of %d bytes is too short for a size prefix", len(buf))
		}
		size := access.GetSizePrefix(buf, 0)
		if int(size) != len(buf)-types.SizePrefixLength {
			return fmt.Errorf("size prefix %d does not match %d payload bytes", size, len(buf)-types.SizePrefixLength)
		}
		fmt.Fprintf(w, "size prefix: %d\n", size)
		base = types.SizePrefixLength
		tab = access.GetSizePrefixedRoot(buf, 0)
	} else {
		if len(buf) < types.SizeUOffsetT {
			return fmt.Errorf("buffer of %d bytes is too short for a root offset", len(buf))
		}
		tab = access.GetRoot(buf, 0)
	}
	if err := checkTable(tab); err != nil {
		return err
	}

	fmt.Fprintf(w, "buffer: %d bytes\nroot: %d\n", len(buf), tab.Pos)
	if len(buf) >= base+types.SizeUOffsetT+types.FileIdentifierLength {
		fmt.Fprintf(w, "identifier: %q\n", access.GetBufferIdentifier(buf[base:]))
	}
	if cfg.Identifier != "" {
		ok := access.BufferHasIdentifier(buf, cfg.Identifier)
		if cfg.SizePrefixed {
			ok = access.SizePrefixedBufferHasIdentifier(buf, cfg.Identifier)
		}
		if !ok {
			return fmt.Errorf("buffer identifier does not match %q", cfg.Identifier)
		}
	}

	fmt.Fprintf(w, "vtable: %d (size %d, object %d)\n", tab.Vtable(), tab.VtableSize(), tab.ObjectSize())
	cur := access.NewFieldCursor(tab)
	for cur.Next() {
		if !cur.Present() {
			fmt.Fprintf(w, "  field %d: absent\n", cur.CurrentIndex())
			continue
		}
		payload, err := cur.Payload()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  field %d: voffset %d at %d, % x\n", cur.CurrentIndex(), cur.VOffset(), cur.Position(), payload)
	}

	reg := schema.NewRegistry()
	rootName := cfg.Root
	if cfg.Schema != "" {
		doc, err := schema.LoadFile(cfg.Schema)
		if err != nil {
			return err
		}
		if err := reg.Register(doc); err != nil {
			return err
		}
		if rootName == "" {
			rootName = doc.RootType
		}
	} else {
		if err := namespace.RegisterSchema(reg); err != nil {
			return err
		}
		if rootName == "" {
			rootName = namespace.RootType
		}
	}
	if rootName == "" {
		log.Info().Msg("no root type given, skipping record dump")
		return nil
	}

	v, err := reg.View(rootName, tab)
	if err != nil {
		return err
	}
	rec, err := schema.Unpack(v)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", rootName, err)
	}
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	fmt.Fprintf(w, "%s: %s\n", v.Def.FullName(), out)
	return nil
}
