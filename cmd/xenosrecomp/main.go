// xenosrecomp walks a directory of game data files, finds every embedded
// Xenos shader container, translates each distinct one to portable shader
// source, and writes the aggregated result to a single output file.
package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/xenosrecomp/xenosrecomp/core/app"
	"github.com/xenosrecomp/xenosrecomp/core/data/id"
	"github.com/xenosrecomp/xenosrecomp/core/fault"
	"github.com/xenosrecomp/xenosrecomp/core/log"
	"github.com/xenosrecomp/xenosrecomp/xenos/translator"
)

func init() {
	app.Name = "xenosrecomp"
	app.ShortHelp = "Translates Xenos shader microcode into portable shader source"
	app.ShortUsage = "<input-dir> <output-file> <common-header-file>"
}

func main() {
	app.Run(run)
}

// foundShader is one discovered, not-yet-deduplicated shader blob: a
// borrowed byte range inside one of the scanned input files.
type foundShader struct {
	hash id.ID
	data []byte
}

func run(ctx context.Context) error {
	args := flag.Args()
	if len(args) != 3 {
		return errors.Errorf("expected 3 positional arguments, got %d", len(args))
	}
	inputDir, outputPath, headerPath := args[0], args[1], args[2]

	headerBytes, err := ioutil.ReadFile(headerPath)
	if err != nil {
		return errors.Wrap(err, "reading common header")
	}
	commonHeader := string(headerBytes)

	shaders, err := scanDirectory(inputDir)
	if err != nil {
		return errors.Wrap(err, "scanning input directory")
	}
	log.I(ctx, "found %d distinct shaders", len(shaders))

	results, err := translateAll(ctx, shaders, commonHeader)
	if err != nil {
		return err
	}

	return writeCache(outputPath, results)
}

// scanDirectory walks dir recursively, and within every regular file scans
// for shader container magic numbers, slicing out one borrowed byte range
// per container found and deduplicating by content hash. Byte ranges are
// taken from (virtualSize+physicalSize) at the magic offset, mirroring the
// original recompiler's container-sizing convention.
func scanDirectory(dir string) (map[id.ID][]byte, error) {
	shaders := map[id.ID][]byte{}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}
		scanFile(data, shaders)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shaders, nil
}

const headerSize = 0x48

func scanFile(data []byte, out map[id.ID][]byte) {
	for i := 0; i+headerSize < len(data); {
		flags := binary.BigEndian.Uint32(data[i : i+4])
		field1C := binary.BigEndian.Uint32(data[i+28 : i+32])
		field20 := binary.BigEndian.Uint32(data[i+32 : i+36])
		virtualSize := binary.BigEndian.Uint32(data[i+36 : i+40])
		physicalSize := binary.BigEndian.Uint32(data[i+40 : i+44])

		if flags&0xFFFFFF00 == 0x102A1100 && field1C == 0 && field20 == 0 {
			dataSize := int(virtualSize) + int(physicalSize)
			if dataSize > 0 && i+dataSize <= len(data) {
				blob := data[i : i+dataSize]
				out[id.OfBytes(blob)] = blob
				i += dataSize
				continue
			}
		}
		i += 4
	}
}

// translated is one completed translation, kept alongside its hash so the
// aggregated output can be written in a stable, deterministic order.
type translated struct {
	hash   id.ID
	result translator.Result
}

// translateAll drains a single mutex-protected work queue of shader hashes
// across a fixed worker pool, one translation per goroutine at a time; no
// translator state is shared between workers. Every worker's failure is
// collected rather than abandoning the run on the first one, so a single
// malformed shader doesn't hide problems with the rest of the batch.
func translateAll(ctx context.Context, shaders map[id.ID][]byte, commonHeader string) ([]translated, error) {
	hashes := make([]id.ID, 0, len(shaders))
	for h := range shaders {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i].String() < hashes[j].String() })

	var (
		mu      sync.Mutex
		queue   = hashes
		results = make([]translated, 0, len(hashes))
		errs    fault.List
	)

	numWorkers := runtime.NumCPU()
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(hashes) {
		numWorkers = len(hashes)
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				mu.Lock()
				if len(queue) == 0 {
					mu.Unlock()
					return
				}
				h := queue[0]
				queue = queue[1:]
				mu.Unlock()

				result, err := translator.Translate(shaders[h], commonHeader)

				mu.Lock()
				if err != nil {
					errs.Collect(errors.Wrapf(err, "translating shader %s", h))
				} else {
					results = append(results, translated{hash: h, result: result})
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		log.E(ctx, "%v", err)
	}
	if first := errs.First(); first != nil {
		return nil, errors.Wrapf(first, "%d of %d shaders failed to translate", len(errs), len(hashes))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].hash.String() < results[j].hash.String() })
	return results, nil
}

// writeCache writes the aggregated translation output. Packing it into a
// compressed, embeddable cache artifact is the job of a downstream step
// this translator does not perform; this writes the plain concatenated
// source text, one section per shader, as that step's input.
func writeCache(path string, results []translated) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, t := range results {
		fmt.Fprintf(w, "// shader %s, feature mask 0x%x\n", t.hash, t.result.FeatureMask)
		w.WriteString(t.result.Text)
		w.WriteString("\n")
	}
	return w.Flush()
}
