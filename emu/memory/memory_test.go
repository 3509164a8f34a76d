/*
 * RV32 - Backing store tests.
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

package memory

import "testing"

func TestSimpleWordRoundTrip(t *testing.T) {
	m := NewSimple(256)
	m.Process(0x40, Word, Store, 0xdeadbeef)
	r, wait := m.Process(0x40, Word, Load, 0)
	if wait {
		t.Error("Load should not wait")
	}
	if r != 0xdeadbeef {
		t.Errorf("Load not correct got: %x expected: %x", r, 0xdeadbeef)
	}
}

func TestSimpleByteLanes(t *testing.T) {
	m := NewSimple(256)
	m.Process(0x10, Word, Store, 0x44332211)
	want := []uint32{0x11, 0x22, 0x33, 0x44}
	for i := uint32(0); i < 4; i++ {
		r, _ := m.Process(0x10+i, ByteU, Load, 0)
		if r != want[i] {
			t.Errorf("ByteU lane %d not correct got: %x expected: %x", i, r, want[i])
		}
	}
}

func TestSimpleSignExtension(t *testing.T) {
	m := NewSimple(256)
	m.Process(0x20, Word, Store, 0x8000ff80)
	r, _ := m.Process(0x20, Byte, Load, 0)
	if r != 0xffffff80 {
		t.Errorf("Byte sign extension not correct got: %x expected: %x", r, 0xffffff80)
	}
	r, _ = m.Process(0x20, Half, Load, 0)
	if r != 0xffffff80 {
		t.Errorf("Half sign extension not correct got: %x expected: %x", r, 0xffffff80)
	}
	r, _ = m.Process(0x22, Half, Load, 0)
	if r != 0xffff8000 {
		t.Errorf("Half sign extension not correct got: %x expected: %x", r, 0xffff8000)
	}
	r, _ = m.Process(0x22, HalfU, Load, 0)
	if r != 0x8000 {
		t.Errorf("HalfU not correct got: %x expected: %x", r, 0x8000)
	}
}

func TestSimpleSubWordStore(t *testing.T) {
	m := NewSimple(256)
	m.Process(0x30, Word, Store, 0xaaaaaaaa)
	m.Process(0x31, Byte, Store, 0x55)
	r, _ := m.Process(0x30, Word, Load, 0)
	if r != 0xaaaa55aa {
		t.Errorf("Byte store merge not correct got: %x expected: %x", r, 0xaaaa55aa)
	}
	m.Process(0x32, Half, Store, 0x1234)
	r, _ = m.Process(0x30, Word, Load, 0)
	if r != 0x123455aa {
		t.Errorf("Half store merge not correct got: %x expected: %x", r, 0x123455aa)
	}
}

func TestSimpleNone(t *testing.T) {
	m := NewSimple(256)
	r, wait := m.Process(0x40, Word, None, 0x1234)
	if wait {
		t.Error("None should not wait")
	}
	if r != 0 {
		t.Errorf("None not correct got: %x expected: 0", r)
	}
}

func TestIncompleteWordStoreOneCycle(t *testing.T) {
	m := NewIncomplete(256)
	_, wait := m.Process(0x40, Word, Store, 0xcafebabe)
	if wait {
		t.Error("Word store should not wait")
	}
	r, _ := m.Process(0x40, Word, Load, 0)
	if r != 0xcafebabe {
		t.Errorf("Load not correct got: %x expected: %x", r, 0xcafebabe)
	}
}

func TestIncompleteSubWordStoreTwoCycles(t *testing.T) {
	m := NewIncomplete(256)
	m.Process(0x40, Word, Store, 0xaaaaaaaa)

	// First cycle reads the word and waits.
	_, wait := m.Process(0x41, Byte, Store, 0x7f)
	if !wait {
		t.Error("Sub-word store should wait on first cycle")
	}
	// Second cycle completes the merged write.
	_, wait = m.Process(0x41, Byte, Store, 0x7f)
	if wait {
		t.Error("Sub-word store should complete on second cycle")
	}
	r, _ := m.Process(0x40, Word, Load, 0)
	if r != 0xaaaa7faa {
		t.Errorf("Merged store not correct got: %x expected: %x", r, 0xaaaa7faa)
	}
}

func TestIncompleteLoadSingleCycle(t *testing.T) {
	m := NewIncomplete(256)
	m.Process(0x80, Word, Store, 0x80000001)
	r, wait := m.Process(0x83, Byte, Load, 0)
	if wait {
		t.Error("Load should not wait")
	}
	if r != 0xffffff80 {
		t.Errorf("Load not correct got: %x expected: %x", r, 0xffffff80)
	}
}

func TestIncompleteShared(t *testing.T) {
	back := make([]uint32, 256)
	im := NewIncompleteShared(back)
	dm := NewIncompleteShared(back)
	dm.Process(0x10, Word, Store, 0x00000013)
	r, _ := im.Process(0x10, Word, Load, 0)
	if r != 0x13 {
		t.Errorf("Shared backing not correct got: %x expected: %x", r, 0x13)
	}
}

func TestAddressWrap(t *testing.T) {
	m := NewSimple(16) // 64 bytes
	m.Process(0x40, Word, Store, 0x12345678)
	r, _ := m.Process(0x00, Word, Load, 0)
	if r != 0x12345678 {
		t.Errorf("Wrapped address not correct got: %x expected: %x", r, 0x12345678)
	}
}
