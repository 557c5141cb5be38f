// Command reportgen runs one chip-identification pass: load a results
// stream and a vendor catalogue, apply the device context, and write the
// pivoted report plus its CRC-32 sidecar. Flag handling follows
// cmd/iqmreader's "parse flags, call one function, exit(1) on error"
// shape, generalised from the standard library's flag package to
// github.com/spf13/pflag for GNU-style long options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/WarriorWiras/Embedded-System/engine"
	"github.com/WarriorWiras/Embedded-System/internal/checksum"
	"github.com/WarriorWiras/Embedded-System/internal/devctx"
	"github.com/WarriorWiras/Embedded-System/internal/logx"
)

func main() {
	var (
		resultsPath   string
		catalogPath   string
		outPath       string
		deviceJedec   string
		sckHz         float64
		capacityBytes int64
		logLevel      string
	)
	pflag.StringVar(&resultsPath, "results", "results.csv", "path to the raw benchmark results stream")
	pflag.StringVar(&catalogPath, "catalog", "catalog.csv", "path to the vendor datasheet catalogue")
	pflag.StringVar(&outPath, "out", "report.csv", "path to write the generated report")
	pflag.StringVar(&deviceJedec, "jedec", "", "observed device JEDEC id, if known")
	pflag.Float64Var(&sckHz, "sck-hz", 0, "observed SPI SCK frequency in Hz, 0 if unknown")
	pflag.Int64Var(&capacityBytes, "capacity-bytes", 0, "observed device capacity in bytes, 0 if unknown")
	pflag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pflag.Parse()

	logx.SetLevel(logLevel)

	resultsFile, err := os.Open(resultsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reportgen: %v\n", err)
		os.Exit(1)
	}
	defer resultsFile.Close()

	catalogFile, err := os.Open(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reportgen: %v\n", err)
		os.Exit(1)
	}
	defer catalogFile.Close()

	ctx := devctx.New(deviceJedec, sckHz, capacityBytes)
	logx.Debugf("reportgen: device jedec=%q sck_hz=%.0f capacity_bytes=%d", deviceJedec, sckHz, capacityBytes)

	outFile, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reportgen: %v\n", err)
		os.Exit(1)
	}

	reportBuf := &countingBuffer{}
	if err := engine.GenerateReport(resultsFile, catalogFile, ctx, reportBuf); err != nil {
		outFile.Close()
		fmt.Fprintf(os.Stderr, "reportgen: %v\n", err)
		os.Exit(1)
	}

	if _, err := outFile.Write(reportBuf.data); err != nil {
		outFile.Close()
		fmt.Fprintf(os.Stderr, "reportgen: %v\n", err)
		os.Exit(1)
	}
	if err := outFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "reportgen: %v\n", err)
		os.Exit(1)
	}

	sum := checksum.Sum(reportBuf.data)
	sidecarPath := checksum.SidecarName(outPath)
	if err := os.WriteFile(sidecarPath, []byte(checksum.SidecarContents(sum)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "reportgen: failed writing checksum sidecar: %v\n", err)
		os.Exit(1)
	}

	logx.Infof("reportgen: wrote %s (%d bytes) and %s", outPath, len(reportBuf.data), sidecarPath)
}

// countingBuffer lets the report be written once, checksummed, then
// flushed to disk, without the report writer needing to know about
// files or checksums.
type countingBuffer struct {
	data []byte
}

func (b *countingBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}
