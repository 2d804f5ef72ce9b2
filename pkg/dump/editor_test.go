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
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/juicedata/svnrdump/pkg/editor"
)

func newTestEditor(t *testing.T, buf *bytes.Buffer) *DumpEditor {
	t.Helper()
	pool, err := NewScratchPool(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { pool.Close() })
	ed, err := NewDumpEditor(editor.Config{FromRev: 1, OutStream: buf}, pool)
	if err != nil {
		t.Fatal(err)
	}
	return ed
}

// TestDumpEditorScenarios walks spec.md §8's five testable scenarios
// (S1-S5) directly against DumpEditor, asserting on the exact bytes
// written, in the Convey/So style the teacher's go.mod pulls in
// smartystreets/goconvey for.
func TestDumpEditorScenarios(t *testing.T) {
	Convey("S1: add a file with text and no properties", t, func() {
		var buf bytes.Buffer
		ed := newTestEditor(t, &buf)

		So(ed.OpenRoot(0), ShouldBeNil)
		So(ed.AddFile("/trunk/hello.txt", editor.CopyFrom{Rev: editor.InvalidRevnum}), ShouldBeNil)
		handler, err := ed.ApplyTextDelta()
		So(err, ShouldBeNil)
		So(handler(&editor.TxDeltaWindow{Data: []byte("abc")}), ShouldBeNil)
		So(handler(&editor.TxDeltaWindow{EOF: true}), ShouldBeNil)
		So(ed.CloseFile("d41d8cd98f00b204e9800998ecf8427e"), ShouldBeNil)
		So(ed.CloseEdit(), ShouldBeNil)

		out := buf.String()
		So(out, ShouldContainSubstring, "Node-path: trunk/hello.txt\n")
		So(out, ShouldContainSubstring, "Node-kind: file\n")
		So(out, ShouldContainSubstring, "Node-action: add\n")
		So(out, ShouldContainSubstring, "Text-delta: true\n")
		So(out, ShouldContainSubstring, "Text-content-md5: d41d8cd98f00b204e9800998ecf8427e\n")
		So(out, ShouldEndWith, "\n\n")
	})

	Convey("S2: add a directory by copy, no further changes", t, func() {
		var buf bytes.Buffer
		ed := newTestEditor(t, &buf)

		So(ed.OpenRoot(0), ShouldBeNil)
		So(ed.AddDirectory("/branches/stable", editor.CopyFrom{Path: "/trunk", Rev: 4}), ShouldBeNil)
		So(ed.CloseDirectory(), ShouldBeNil)
		So(ed.CloseEdit(), ShouldBeNil)

		out := buf.String()
		So(out, ShouldContainSubstring, "Node-path: branches/stable\n")
		So(out, ShouldContainSubstring, "Node-kind: dir\n")
		So(out, ShouldContainSubstring, "Node-action: add\n")
		So(out, ShouldContainSubstring, "Node-copyfrom-rev: 4\n")
		So(out, ShouldContainSubstring, "Node-copyfrom-path: trunk\n")
		So(out, ShouldNotContainSubstring, "Prop-content-length")
	})

	Convey("S3: change a directory property on an already-open directory", t, func() {
		var buf bytes.Buffer
		ed := newTestEditor(t, &buf)

		So(ed.OpenRoot(0), ShouldBeNil)
		So(ed.OpenDirectory("/trunk"), ShouldBeNil)
		So(ed.ChangeDirProp([]byte("svn:ignore"), []byte("*.o")), ShouldBeNil)
		So(ed.CloseDirectory(), ShouldBeNil)
		So(ed.CloseEdit(), ShouldBeNil)

		out := buf.String()
		So(out, ShouldContainSubstring, "Node-path: trunk\n")
		So(out, ShouldContainSubstring, "Node-action: change\n")
		So(out, ShouldContainSubstring, "K 10\nsvn:ignore\n")
		So(out, ShouldContainSubstring, "PROPS-END\n")
	})

	Convey("S4: delete_entry upgraded to replace by a following add", t, func() {
		var buf bytes.Buffer
		ed := newTestEditor(t, &buf)

		So(ed.OpenRoot(0), ShouldBeNil)
		So(ed.DeleteEntry("/trunk/old.txt"), ShouldBeNil)
		So(ed.AddFile("/trunk/old.txt", editor.CopyFrom{Rev: editor.InvalidRevnum}), ShouldBeNil)
		So(ed.CloseFile(""), ShouldBeNil)
		So(ed.CloseEdit(), ShouldBeNil)

		out := buf.String()
		So(out, ShouldContainSubstring, "Node-action: replace\n")
		// A delete_entry upgraded into a replace never emits a standalone
		// delete record of its own.
		deleteCount := bytes.Count([]byte(out), []byte("Node-action: delete\n"))
		So(deleteCount, ShouldEqual, 0)
	})

	Convey("S5: add an empty directory with no properties", t, func() {
		var buf bytes.Buffer
		ed := newTestEditor(t, &buf)

		So(ed.OpenRoot(0), ShouldBeNil)
		So(ed.AddDirectory("/d", editor.CopyFrom{Rev: editor.InvalidRevnum}), ShouldBeNil)
		So(ed.CloseDirectory(), ShouldBeNil)
		So(ed.CloseEdit(), ShouldBeNil)

		out := buf.String()
		want := "SVN-fs-dump-format-version: 3\n" +
			"Node-path: d\n" +
			"Node-kind: dir\n" +
			"Node-action: add\n" +
			"\n\n"
		So(out, ShouldEqual, want)
		So(out, ShouldNotContainSubstring, "Content-length")
	})
}

func TestDumpEditorStandaloneDeleteFlushedInAscendingOrder(t *testing.T) {
	Convey("unmatched delete_entry calls flush in ascending path order", t, func() {
		var buf bytes.Buffer
		ed := newTestEditor(t, &buf)

		So(ed.OpenRoot(0), ShouldBeNil)
		So(ed.DeleteEntry("/trunk/z.txt"), ShouldBeNil)
		So(ed.DeleteEntry("/trunk/a.txt"), ShouldBeNil)
		So(ed.OpenDirectory("/trunk"), ShouldBeNil)
		So(ed.CloseDirectory(), ShouldBeNil)
		So(ed.CloseEdit(), ShouldBeNil)

		out := buf.String()
		aIdx := bytes.Index([]byte(out), []byte("Node-path: trunk/a.txt\n"))
		zIdx := bytes.Index([]byte(out), []byte("Node-path: trunk/z.txt\n"))
		So(aIdx, ShouldBeGreaterThan, -1)
		So(zIdx, ShouldBeGreaterThan, -1)
		So(aIdx, ShouldBeLessThan, zIdx)
	})
}

func TestDumpEditorPanicsOnUnmatchedCloseDirectory(t *testing.T) {
	Convey("close_directory with no open directory is a driver-contract violation", t, func() {
		var buf bytes.Buffer
		ed := newTestEditor(t, &buf)
		So(ed.OpenRoot(0), ShouldBeNil)

		So(func() {
			_ = ed.CloseDirectory() // pops the root frame
			_ = ed.CloseDirectory() // unmatched, should panic
		}, ShouldPanic)
	})
}
