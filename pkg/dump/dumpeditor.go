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
	"path"
	"strings"

	"github.com/juicedata/svnrdump/pkg/editor"
)

// stripLeadingSlash turns DirFrame's internal "/trunk/foo" convention into
// the header form the dumpfile grammar expects.
func stripLeadingSlash(p string) string {
	return strings.TrimPrefix(p, "/")
}

// DumpEditor drives DumpWriter through the callback grammar in
// pkg/editor, implementing the state machine from spec.md §4.4: deferred
// property emission, the add/change/delete/replace node-emission switch,
// and the directory stack. It is the only editor.Editor implementation in
// this module.
//
// At most one DumpEditor is ever live per output stream (spec.md §2
// invariant 1); it is reused across consecutive revisions, each bounded
// by one OpenRoot/CloseEdit pair.
type DumpEditor struct {
	writer *DumpWriter
	pool   *ScratchPool

	nextRev    int64
	wroteMagic bool

	state *EditState

	metrics *editorMetrics
}

// NewDumpEditor builds a DumpEditor writing dumpfile v3 records to
// cfg.OutStream, starting at cfg.FromRev. pool backs every file's
// ApplyTextDelta with scratch-file storage and is shared for the whole
// process lifetime, not recreated per edit.
func NewDumpEditor(cfg editor.Config, pool *ScratchPool) (*DumpEditor, error) {
	if cfg.OutStream == nil {
		driverContractViolation("NewDumpEditor: nil OutStream")
	}
	return &DumpEditor{
		writer:  NewDumpWriter(cfg.OutStream),
		pool:    pool,
		nextRev: cfg.FromRev,
		metrics: newEditorMetrics(),
	}, nil
}

var _ editor.Editor = (*DumpEditor)(nil)

// OpenRoot begins one edit: writes the top-of-stream magic line if this is
// the first edit on this stream, then creates a fresh EditState with a
// root DirFrame pushed.
func (e *DumpEditor) OpenRoot(baseRevision int64) error {
	if !e.wroteMagic {
		if err := e.writer.EmitMagic(); err != nil {
			return err
		}
		e.wroteMagic = true
	}
	e.state = newEditState(e.nextRev, e.pool)
	e.state.push(newDirFrame("/", false))
	return nil
}

// DeleteEntry queues path for deletion against the current top directory.
// An add for the same path later in the same directory upgrades the pair
// into a replace; otherwise close_directory flushes it as a standalone
// delete record.
func (e *DumpEditor) DeleteEntry(entryPath string) error {
	if err := e.flushPendingDirProps(); err != nil {
		return err
	}
	e.state.top().queueDelete(entryPath)
	e.metrics.observeNode("delete")
	return nil
}

// AddDirectory emits the directory's node record (add, or replace if
// delete_entry already queued this path) and pushes its frame.
func (e *DumpEditor) AddDirectory(dirPath string, copyFrom editor.CopyFrom) error {
	if err := e.flushPendingDirProps(); err != nil {
		return err
	}
	parent := e.state.top()
	action := editor.ActionAdd
	if parent.unqueueDelete(dirPath) {
		action = editor.ActionReplace
	}
	e.state.isCopy = copyFrom.Valid()
	if err := e.emitNode(dirPath, editor.KindDirectory, action, copyFrom); err != nil {
		return err
	}
	frame := newDirFrame(dirPath, true)
	frame.writtenOut = true
	if copyFrom.Valid() {
		frame.cmpPath = copyFrom.Path
		frame.cmpRev = copyFrom.Rev
	} else {
		frame.headerOpen = true
		e.state.dirPropsPending = true
	}
	e.state.push(frame)
	e.metrics.observeNode(actionString(action))
	return nil
}

// OpenDirectory pushes a frame for an unchanged-so-far directory, no node
// record emitted until something (a property change, a child event)
// forces one.
func (e *DumpEditor) OpenDirectory(dirPath string) error {
	if err := e.flushPendingDirProps(); err != nil {
		return err
	}
	parent := e.state.top()
	frame := newDirFrame(dirPath, false)
	if parent.hasComparisonSource() {
		frame.cmpPath = parent.cmpPath + "/" + path.Base(dirPath)
		frame.cmpRev = parent.cmpRev
	}
	e.state.push(frame)
	return nil
}

// CloseDirectory flushes any still-pending property record for this
// directory, then emits one standalone delete record per path the
// directory's children queued but never got upgraded into a replace.
func (e *DumpEditor) CloseDirectory() error {
	if err := e.flushPendingDirProps(); err != nil {
		return err
	}
	frame := e.state.pop()
	var ferr error
	frame.flushDeletes(func(delPath string) {
		if ferr != nil {
			return
		}
		ferr = e.emitNode(delPath, editor.KindUnknown, editor.ActionDelete, editor.CopyFrom{Rev: editor.InvalidRevnum})
	})
	return ferr
}

// ChangeDirProp buffers one property change against the current top
// directory. If that directory has no record at all yet, or its only
// record is already terminated (a plain copy, say), the change gets its
// own self-contained "change" record, written and terminated immediately
// so dirPropsPending never has to track it. Otherwise it's buffered into
// the record that's already open, to be flushed later.
func (e *DumpEditor) ChangeDirProp(name, value []byte) error {
	top := e.state.top()
	if value == nil {
		e.state.props.Delete(string(name))
	} else {
		e.state.props.Set(string(name), value)
	}
	if !top.writtenOut || !top.headerOpen {
		if err := e.emitNode(top.path, editor.KindDirectory, editor.ActionChange, editor.CopyFrom{Rev: editor.InvalidRevnum}); err != nil {
			return err
		}
		if err := e.finishPendingPropRecord(); err != nil {
			return err
		}
		top.writtenOut = true
		top.headerOpen = false
		return nil
	}
	e.state.dirPropsPending = true
	return nil
}

// AddFile emits the file's node record (add, or replace if queued for
// deletion) and remembers it as the currently-open file. No terminator is
// written yet: the body is still pending, closed out by CloseFile.
func (e *DumpEditor) AddFile(filePath string, copyFrom editor.CopyFrom) error {
	if err := e.flushPendingDirProps(); err != nil {
		return err
	}
	parent := e.state.top()
	action := editor.ActionAdd
	if parent.unqueueDelete(filePath) {
		action = editor.ActionReplace
	}
	e.state.isCopy = copyFrom.Valid()
	if err := e.emitNode(filePath, editor.KindFile, action, copyFrom); err != nil {
		return err
	}
	e.state.currentNodePath = filePath
	e.state.currentNodeKind = editor.KindFile
	e.metrics.observeNode(actionString(action))
	return nil
}

// OpenFile emits a "change" record for a file whose text and/or
// properties may or may not actually change, remembering it as open.
func (e *DumpEditor) OpenFile(filePath string) error {
	if err := e.flushPendingDirProps(); err != nil {
		return err
	}
	if err := e.emitNode(filePath, editor.KindFile, editor.ActionChange, editor.CopyFrom{Rev: editor.InvalidRevnum}); err != nil {
		return err
	}
	e.state.currentNodePath = filePath
	e.state.currentNodeKind = editor.KindFile
	return nil
}

// ChangeFileProp buffers one property change against the currently open
// file; it's drained by CloseFile, never by the directory flush path.
func (e *DumpEditor) ChangeFileProp(name, value []byte) error {
	if value == nil {
		e.state.props.Delete(string(name))
	} else {
		e.state.props.Set(string(name), value)
	}
	return nil
}

// ApplyTextDelta opens a scratch-backed DeltaSink and returns its window
// handler, to be called once per svndiff window and finally with EOF set.
func (e *DumpEditor) ApplyTextDelta() (editor.WindowHandler, error) {
	sink, err := e.pool.NewSink()
	if err != nil {
		return nil, err
	}
	e.state.sink = sink
	e.state.fileMustDumpText = true
	return sink.Begin(), nil
}

// CloseFile finalizes the currently open file's record: prop headers (if
// any), text headers (if any), the combined Content-length, the property
// bytes, the spliced text, and the terminator — then clears all deferred
// state for the next node.
func (e *DumpEditor) CloseFile(textChecksum string) error {
	hasText := e.state.fileMustDumpText
	hasProps := !e.state.props.Empty()

	var propsData []byte
	if hasProps {
		propsData = e.state.props.Serialize()
		if err := e.writer.EmitPropHeaders(len(propsData)); err != nil {
			return err
		}
	}
	if hasText {
		if err := e.writer.EmitTextHeaders(e.state.sink.Size(), textChecksum); err != nil {
			return err
		}
	}
	if hasText || hasProps {
		total := len(propsData)
		if hasText {
			total += int(e.state.sink.Size())
		}
		if err := e.writer.EmitContentLength(total); err != nil {
			return err
		}
	}
	if hasProps {
		if err := e.writer.WriteProps(propsData); err != nil {
			return err
		}
	}
	if hasText {
		if err := e.writer.SpliceFile(e.state.sink.Path()); err != nil {
			return err
		}
		if err := e.state.sink.Remove(); err != nil {
			return err
		}
	}
	if err := e.writer.Terminator(); err != nil {
		return err
	}
	e.state.fileMustDumpText = false
	e.state.sink = nil
	e.state.props.Reset()
	e.state.currentNodePath = ""
	e.state.currentNodeKind = editor.KindUnknown
	return nil
}

// CloseEdit ends the current revision's edit. Any directory frame still on
// the stack (the root, which the grammar never closes) is closed first, so
// its pending property record and queued deletes are flushed. EditState is
// then dropped outright (there's no arena to tear down in Go — the garbage
// collector reclaims it); current_rev advances for the next OpenRoot.
func (e *DumpEditor) CloseEdit() error {
	for len(e.state.dirStack) > 0 {
		if err := e.CloseDirectory(); err != nil {
			return err
		}
	}
	e.nextRev = e.state.currentRev + 1
	e.state = nil
	return nil
}

// emitNode is the central node-emission procedure from spec.md §4.4: it
// writes Node-path/Node-kind, then switches on action.
//
//   - change: just the action header. Caller decides what, if anything,
//     follows (ChangeDirProp's self-contained drain, or nothing for
//     OpenFile/OpenDirectory which await further callbacks).
//   - delete: action header, then the terminator — a delete record has no
//     body.
//   - add, no copy source: action header; for a directory, the caller
//     marks its record open and pending a property flush. A file's body
//     stays open until CloseFile regardless.
//   - add, with copy source: action header plus the two copyfrom headers;
//     for a directory (which gets no CloseFile call), the terminator is
//     written immediately — the copy carries no further body here.
//   - replace, with copy source: a delete record (with terminator) for
//     the old node, immediately followed by a second, complete "add with
//     copy" record for the new one (recursing into this same function).
//   - replace, no copy source: identical to add/no-copy.
func (e *DumpEditor) emitNode(nodePath string, kind editor.Kind, action editor.Action, copyFrom editor.CopyFrom) error {
	if err := e.writer.EmitHeader(stripLeadingSlash(nodePath), kind); err != nil {
		return err
	}
	switch action {
	case editor.ActionChange:
		return e.writer.EmitAction(action)

	case editor.ActionDelete:
		if err := e.writer.EmitAction(action); err != nil {
			return err
		}
		return e.writer.Terminator()

	case editor.ActionAdd:
		if err := e.writer.EmitAction(action); err != nil {
			return err
		}
		if copyFrom.Valid() {
			if err := e.writer.EmitCopyFrom(copyFrom.Rev, stripLeadingSlash(copyFrom.Path)); err != nil {
				return err
			}
			e.state.isCopy = false
			if kind == editor.KindDirectory {
				return e.writer.Terminator()
			}
			return nil
		}
		if kind == editor.KindDirectory {
			e.state.dirPropsPending = true
		}
		return nil

	case editor.ActionReplace:
		if copyFrom.Valid() {
			if err := e.writer.EmitAction(editor.ActionDelete); err != nil {
				return err
			}
			if err := e.writer.Terminator(); err != nil {
				return err
			}
			e.state.dirPropsPending = false
			e.state.isCopy = false
			return e.emitNode(nodePath, kind, editor.ActionAdd, copyFrom)
		}
		if err := e.writer.EmitAction(action); err != nil {
			return err
		}
		if kind == editor.KindDirectory {
			e.state.dirPropsPending = true
		}
		return nil
	}
	return nil
}

// flushPendingDirProps drains the current top directory's deferred
// property record if one is outstanding. Every callback that could follow
// an open directory record — add/open child, delete_entry, close_directory
// — calls this first (spec.md §4.4).
func (e *DumpEditor) flushPendingDirProps() error {
	if !e.state.dirPropsPending {
		return nil
	}
	if err := e.finishPendingPropRecord(); err != nil {
		return err
	}
	if top := e.state.top(); top != nil {
		top.headerOpen = false
	}
	return nil
}

// finishPendingPropRecord closes out the directory record currently left
// open: if any property was buffered, it writes the property block plus
// Content-length; either way it writes the terminator — a directory with
// no properties at all still needs its record closed (spec.md §8 S5: an
// empty added directory gets one record, no Content-length, just the
// trailing blank line). Shared by the generic pre-callback flush and
// ChangeDirProp's self-contained immediate drain.
func (e *DumpEditor) finishPendingPropRecord() error {
	if !e.state.props.Empty() {
		data := e.state.props.Serialize()
		if err := e.writer.EmitPropHeaders(len(data)); err != nil {
			return err
		}
		if err := e.writer.EmitContentLength(len(data)); err != nil {
			return err
		}
		if err := e.writer.WriteProps(data); err != nil {
			return err
		}
		e.state.props.Reset()
	}
	if err := e.writer.Terminator(); err != nil {
		return err
	}
	e.state.dirPropsPending = false
	return nil
}
