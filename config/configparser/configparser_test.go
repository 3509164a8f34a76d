/*
 * RV32 - Configuration parser tests.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package configparser

import (
	"os"
	"path/filepath"
	"testing"
)

func parse(t *testing.T, text string) (*Config, error) {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.cfg")
	if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return LoadConfigFile(name)
}

func TestParseFull(t *testing.T) {
	cfg, err := parse(t, `
# Test configuration.
memory 4M
icache line=32 sets=128
dcache off
image boot.bin 100
pc 0x100
trace on
`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MemSize != 4*1024*1024 {
		t.Errorf("memory size not correct got: %d expected: %d", cfg.MemSize, 4*1024*1024)
	}
	if cfg.ICache == nil || cfg.ICache.LineSize != 32 || cfg.ICache.Sets != 128 {
		t.Errorf("icache not correct: %+v", cfg.ICache)
	}
	if cfg.DCache != nil {
		t.Errorf("dcache should be off: %+v", cfg.DCache)
	}
	if cfg.Image != "boot.bin" || cfg.ImageAddr != 0x100 {
		t.Errorf("image not correct: %q at %x", cfg.Image, cfg.ImageAddr)
	}
	if cfg.PC != 0x100 {
		t.Errorf("pc not correct got: %x expected: 100", cfg.PC)
	}
	if !cfg.Trace {
		t.Error("trace should be on")
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(t, "# nothing but comments\n")
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.MemSize != def.MemSize {
		t.Errorf("default memory not correct got: %d expected: %d", cfg.MemSize, def.MemSize)
	}
	if cfg.ICache == nil || cfg.DCache == nil {
		t.Error("caches should default on")
	}
}

func TestParseSizes(t *testing.T) {
	cfg, err := parse(t, "memory 64K\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MemSize != 64*1024 {
		t.Errorf("memory size not correct got: %d expected: %d", cfg.MemSize, 64*1024)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"widget on\n",
		"memory lots\n",
		"icache line=sixteen\n",
		"trace maybe\n",
		"pc 0xzz\n",
		"memory 1M extra\n",
	}
	for _, text := range bad {
		if _, err := parse(t, text); err == nil {
			t.Errorf("bad config accepted: %q", text)
		}
	}
}
