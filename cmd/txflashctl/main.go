// Command txflashctl is the host-side tool for a device manifest of
// txflash engines: it stands in for the "host firmware" and "default
// payload supplier" the core specification places out of scope, backing
// each engine with a FileBank pair instead of real flash.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nvflash/txflash"
	"github.com/nvflash/txflash/bank"
	"github.com/nvflash/txflash/config"
	"github.com/nvflash/txflash/metrics"
	"github.com/nvflash/txflash/registry"
)

func main() {
	manifestPath := flag.String("manifest", "txflash.yaml", "path to the device manifest")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	manifest, err := config.Load(*manifestPath)
	if err != nil {
		fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	collector := metrics.NewCollector()
	reg := registry.New()

	for _, spec := range manifest.Engines {
		handle, err := openEngine(spec, logger, collector)
		if err != nil {
			fatal(err)
		}
		reg.Register(spec.Name, handle)
	}

	switch flag.Arg(0) {
	case "read":
		cmdRead(reg, flag.Arg(1))
	case "write":
		cmdWrite(reg, flag.Arg(1), flag.Arg(2))
	case "reset":
		cmdReset(reg, flag.Arg(1))
	case "dump":
		cmdDump(reg)
	case "serve-metrics":
		if manifest.MetricsAddr == "" {
			fatal(fmt.Errorf("txflashctl: manifest has no metrics_addr"))
		}
		fmt.Printf("serving metrics on %s\n", manifest.MetricsAddr)
		srv := collector.StartExporter(manifest.MetricsAddr)
		defer srv.Close()
		select {}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: txflashctl [-manifest path] <read|write|reset|dump|serve-metrics> [name] [payload-hex]")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "txflashctl:", err)
	os.Exit(1)
}

// openEngine dispatches on the manifest's configured position width to
// instantiate the right Engine[P], then erases the generic type behind a
// registry.Handle so the rest of main doesn't need to know it.
func openEngine(spec config.EngineSpec, logger *zap.Logger, collector *metrics.Collector) (registry.Handle, error) {
	switch spec.PositionWidth {
	case "u8":
		return openEngineTyped[uint8](spec, logger, collector)
	case "u16":
		return openEngineTyped[uint16](spec, logger, collector)
	case "u32":
		return openEngineTyped[uint32](spec, logger, collector)
	default:
		return nil, fmt.Errorf("txflashctl: %s: unknown position_width %q", spec.Name, spec.PositionWidth)
	}
}

func openEngineTyped[P txflash.Position](spec config.EngineSpec, logger *zap.Logger, collector *metrics.Collector) (registry.Handle, error) {
	bank0, err := bank.OpenFileBank[P](spec.Bank0.Path, P(spec.Bank0.SizeBytes), spec.EmptyValue)
	if err != nil {
		return nil, err
	}
	bank1, err := bank.OpenFileBank[P](spec.Bank1.Path, P(spec.Bank1.SizeBytes), spec.EmptyValue)
	if err != nil {
		return nil, err
	}

	payload, err := spec.DefaultPayload()
	if err != nil {
		return nil, err
	}

	e, err := txflash.New[P](bank0, bank1, payload,
		txflash.WithLogger(logger.Named(spec.Name)),
		txflash.WithMetrics(collector),
	)
	if err != nil {
		return nil, fmt.Errorf("txflashctl: %s: %w", spec.Name, err)
	}

	return registry.Wrap[P](e), nil
}

func lookup(reg *registry.Registry, name string) registry.Handle {
	h, ok := reg.Get(name)
	if !ok {
		fatal(fmt.Errorf("txflashctl: no such engine %q", name))
	}
	return h
}

func cmdRead(reg *registry.Registry, name string) {
	h := lookup(reg, name)
	buf := make([]byte, h.Length())
	if err := h.Read(buf); err != nil {
		fatal(err)
	}
	fmt.Println(hex.EncodeToString(buf))
}

func cmdWrite(reg *registry.Registry, name, payloadHex string) {
	h := lookup(reg, name)
	payload, err := hex.DecodeString(payloadHex)
	if err != nil {
		fatal(fmt.Errorf("txflashctl: decode payload: %w", err))
	}
	if !h.Write(payload) {
		fatal(fmt.Errorf("txflashctl: payload too large for %q", name))
	}
}

func cmdReset(reg *registry.Registry, name string) {
	lookup(reg, name).Reset()
}

func cmdDump(reg *registry.Registry) {
	for _, name := range reg.Names() {
		h, _ := reg.Get(name)
		buf := make([]byte, h.Length())
		if err := h.Read(buf); err != nil {
			fatal(err)
		}
		fmt.Printf("%s\t%s\n", name, hex.EncodeToString(buf))
	}
}
