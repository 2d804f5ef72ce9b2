/*
 * Copyright 2026 Juicedata, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dump

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/agiledragon/gomonkey/v2"

	"github.com/juicedata/svnrdump/pkg/editor"
)

func TestScratchPoolNewSinkAndSplice(t *testing.T) {
	pool, err := NewScratchPool(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	sink, err := pool.NewSink()
	if err != nil {
		t.Fatal(err)
	}
	handle := sink.Begin()
	if err := handle(&editor.TxDeltaWindow{Data: []byte("hello-window")}); err != nil {
		t.Fatal(err)
	}
	if err := handle(&editor.TxDeltaWindow{EOF: true}); err != nil {
		t.Fatal(err)
	}

	if sink.Size() != int64(len(svndiffMagic)+len("hello-window")) {
		t.Fatalf("sink.Size() = %d, want %d", sink.Size(), len(svndiffMagic)+len("hello-window"))
	}
	if _, err := os.Stat(sink.Path()); err != nil {
		t.Fatalf("scratch file missing after finish: %v", err)
	}
	if err := sink.Remove(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(sink.Path()); !os.IsNotExist(err) {
		t.Fatal("scratch file should be gone after Remove")
	}
}

// TestDeltaSinkAbortsOnWriteFailure patches os.File.Write (via its
// concrete *os.File receiver, since DeltaSink writes directly into the
// scratch file through its svndiffEncoder) to fail on the first window
// and asserts the partial scratch file is removed rather than left
// behind, per spec.md §4.2's "on any intermediate error the partial
// file is removed".
func TestDeltaSinkAbortsOnWriteFailure(t *testing.T) {
	pool, err := NewScratchPool(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	sink, err := pool.NewSink()
	if err != nil {
		t.Fatal(err)
	}
	scratchPath := sink.Path()

	var f *os.File
	patch := gomonkey.ApplyMethod(reflect.TypeOf(f), "Write", func(_ *os.File, _ []byte) (int, error) {
		return 0, errors.New("injected write failure")
	})
	defer patch.Reset()

	handle := sink.Begin()
	if err := handle(&editor.TxDeltaWindow{Data: []byte("window-data")}); err == nil {
		t.Fatal("expected the patched write failure to surface")
	}

	if _, err := os.Stat(scratchPath); !os.IsNotExist(err) {
		t.Fatal("DeltaSink.abort should have removed the scratch file")
	}
}

// TestDeltaSinkAbortsOnStatFailure exercises the other abort path in
// finish: a successful encoder Close followed by a failing Stat.
func TestDeltaSinkAbortsOnStatFailure(t *testing.T) {
	pool, err := NewScratchPool(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	sink, err := pool.NewSink()
	if err != nil {
		t.Fatal(err)
	}
	scratchPath := sink.Path()

	var f *os.File
	patch := gomonkey.ApplyMethod(reflect.TypeOf(f), "Stat", func(_ *os.File) (os.FileInfo, error) {
		return nil, errors.New("injected stat failure")
	})
	defer patch.Reset()

	handle := sink.Begin()
	if err := handle(&editor.TxDeltaWindow{EOF: true}); err == nil {
		t.Fatal("expected the patched stat failure to surface")
	}
	if _, err := os.Stat(scratchPath); !os.IsNotExist(err) {
		t.Fatal("DeltaSink.abort should have removed the scratch file on stat failure")
	}
}

func TestScratchPoolRefusesSecondLock(t *testing.T) {
	dir := t.TempDir()
	first, err := NewScratchPool(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()

	if _, err := NewScratchPool(dir); err == nil {
		t.Fatal("a second pool over the same directory should fail to acquire the lock")
	}
}
