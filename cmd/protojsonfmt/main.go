// Copyright 2021-2022 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// protojsonfmt converts protobuf messages between JSON forms, using only a
// descriptor set to describe them. It reads one message, as JSON or in the
// binary wire format, and writes it back out as JSON shaped by the flags, or
// in the binary format.
//
// Build a descriptor set with protoc or buf:
//
//	protoc --include_imports -o schema.binpb path/to/user.proto
//	buf build -o schema.binpb
//
// Then normalize a document to snake_case keys, writing every field:
//
//	protojsonfmt -d schema.binpb -m acme.user.v1.User --naming snake --omit never < user.json
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/robertlyson/pbjson"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

const usage = "Usage: protojsonfmt -d SCHEMA.binpb -m PACKAGE.MESSAGE [flags] [FILE]\n\nFlags:\n"

type flags struct {
	DescriptorSet   string
	Message         string
	Naming          string
	SchemaNames     bool
	CaseInsensitive bool
	Omit            string
	EnumNames       bool
	Indent          string
	FromBinary      bool
	ToBinary        bool
	Verbose         bool
	Version         bool
}

func main() {
	flagSet := pflag.NewFlagSet("protojsonfmt", pflag.ContinueOnError)
	opts := bindFlags(flagSet)
	flagSet.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if opts.Version {
		fmt.Fprintln(os.Stdout, pbjson.Version)
		os.Exit(0)
	}
	logger, err := newLogger(opts.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	input := io.Reader(os.Stdin)
	if flagSet.NArg() > 0 && flagSet.Arg(0) != "-" {
		file, err := os.Open(flagSet.Arg(0))
		if err != nil {
			logger.Fatal("open input", zap.Error(err))
		}
		defer file.Close()
		input = file
	}
	if err := run(opts, input, os.Stdout, logger); err != nil {
		logger.Error("conversion failed", zap.Error(err), zap.Stringer("code", pbjson.CodeOf(err)))
		os.Exit(1)
	}
}

func bindFlags(flagSet *pflag.FlagSet) *flags {
	opts := &flags{}
	flagSet.StringVarP(&opts.DescriptorSet, "descriptor-set", "d", "", "binary FileDescriptorSet describing the message (required)")
	flagSet.StringVarP(&opts.Message, "message", "m", "", "fully-qualified name of the message (required)")
	flagSet.StringVar(&opts.Naming, "naming", "lower-camel", "key naming policy: lower-camel, snake, kebab or go")
	flagSet.BoolVar(&opts.SchemaNames, "schema-names", false, "use the JSON names declared by the schema instead of --naming")
	flagSet.BoolVar(&opts.CaseInsensitive, "case-insensitive", false, "match input keys without regard to case")
	flagSet.StringVar(&opts.Omit, "omit", "default", "omission of unset fields: default, never or null")
	flagSet.BoolVar(&opts.EnumNames, "enum-names", false, "write enums as names instead of numbers")
	flagSet.StringVar(&opts.Indent, "indent", "", "indent JSON output with this string")
	flagSet.BoolVar(&opts.FromBinary, "from-binary", false, "read the message in the binary wire format")
	flagSet.BoolVar(&opts.ToBinary, "to-binary", false, "write the message in the binary wire format")
	flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")
	flagSet.BoolVar(&opts.Version, "version", false, "print the version and exit")
	return opts
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	config.Encoding = "console"
	return config.Build()
}

func run(opts *flags, input io.Reader, output io.Writer, logger *zap.Logger) error {
	if opts.DescriptorSet == "" || opts.Message == "" {
		return errors.New("--descriptor-set and --message are required")
	}
	codecOptions, err := codecOptions(opts, logger)
	if err != nil {
		return err
	}
	codec := pbjson.NewCodec(codecOptions...)
	messageType, err := loadMessageType(opts.DescriptorSet, protoreflect.FullName(opts.Message))
	if err != nil {
		return err
	}
	logger.Debug("loaded message type", zap.String("message", opts.Message))

	data, err := io.ReadAll(input)
	if err != nil {
		return err
	}
	msg := messageType.New().Interface()
	if opts.FromBinary {
		err = proto.Unmarshal(data, msg)
	} else {
		err = codec.Unmarshal(data, msg)
	}
	if err != nil {
		return err
	}

	var out []byte
	if opts.ToBinary {
		out, err = proto.Marshal(msg)
	} else {
		out, err = codec.Marshal(msg)
		if err == nil && opts.Indent != "" {
			var indented bytes.Buffer
			if err := json.Indent(&indented, out, "", opts.Indent); err != nil {
				return err
			}
			out = indented.Bytes()
		}
		out = append(out, '\n')
	}
	if err != nil {
		return err
	}
	_, err = output.Write(out)
	return err
}

func codecOptions(opts *flags, logger *zap.Logger) ([]pbjson.Option, error) {
	var naming pbjson.NamingPolicy
	switch opts.Naming {
	case "lower-camel":
		naming = pbjson.LowerCamelCase
	case "snake":
		naming = pbjson.SnakeCase
	case "kebab":
		naming = pbjson.KebabCase
	case "go":
	default:
		return nil, fmt.Errorf("unknown naming policy %q", opts.Naming)
	}
	var omission pbjson.Omission
	if err := omission.UnmarshalText([]byte(opts.Omit)); err != nil {
		return nil, err
	}
	return []pbjson.Option{
		pbjson.WithNamingPolicy(naming),
		pbjson.WithSchemaNames(opts.SchemaNames),
		pbjson.WithCaseInsensitive(opts.CaseInsensitive),
		pbjson.WithOmission(omission),
		pbjson.WithEnumNames(opts.EnumNames),
		pbjson.WithWarn(func(err error) {
			logger.Warn("skipped malformed input", zap.Error(err))
		}),
	}, nil
}

// loadMessageType reads a binary FileDescriptorSet and returns a dynamic type
// for the named message.
func loadMessageType(path string, name protoreflect.FullName) (protoreflect.MessageType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var set descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse descriptor set %s: %w", path, err)
	}
	files, err := protodesc.NewFiles(&set)
	if err != nil {
		return nil, fmt.Errorf("link descriptor set %s: %w", path, err)
	}
	desc, err := files.FindDescriptorByName(name)
	if errors.Is(err, protoregistry.NotFound) {
		return nil, fmt.Errorf("%s not found in %s", name, path)
	} else if err != nil {
		return nil, err
	}
	md, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%s is not a message", name)
	}
	return dynamicpb.NewMessageType(md), nil
}
