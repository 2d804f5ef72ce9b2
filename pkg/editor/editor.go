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

// Package editor describes the delta-editor callback contract: the
// interface a remote-session driver programs against while walking one
// revision's tree changes, leaves-first, with explicit open/close framing.
// It mirrors spec.md §6.2 / the svn_delta_editor_t vtable the original
// svnrdump (see _examples/original_source/dump_editor.c) is driven by.
//
// Nothing in this package knows about dumpfiles; pkg/dump's DumpEditor is
// one implementation of Editor. A driver that wants to pretty-print
// events instead, say, implements the same interface.
package editor

import "io"

// Kind is a node's type as known at callback time. KindUnknown is used
// for delete_entry, where the driver never tells the editor what the
// deleted path used to be.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "dir"
	default:
		return ""
	}
}

// Action is the dumpfile node-action a callback sequence resolves to.
type Action int

const (
	ActionAdd Action = iota
	ActionChange
	ActionDelete
	ActionReplace
)

// CopyFrom names a copy-with-history source, the (path, revision) pair
// carried by add_directory/add_file when the driver is replaying a copy.
// Rev == InvalidRevnum means "no copy source".
type CopyFrom struct {
	Path string
	Rev  int64
}

// InvalidRevnum is the sentinel for "no revision" / "no copy source",
// matching svn_repos_dumpfile's use of SVN_INVALID_REVNUM.
const InvalidRevnum int64 = -1

// Valid reports whether this CopyFrom actually names a source.
func (c CopyFrom) Valid() bool {
	return c.Rev != InvalidRevnum
}

// TxDeltaWindow is one streamed window of binary delta data for a file's
// text, as apply_textdelta's handler receives it. EOF marks the sentinel
// window that ends the stream; Data is empty/ignored on the EOF window.
type TxDeltaWindow struct {
	Data []byte
	EOF  bool
}

// WindowHandler is the closure apply_textdelta hands back to the driver;
// the driver calls it once per window and finally once with EOF set.
type WindowHandler func(window *TxDeltaWindow) error

// Config configures an Editor at construction time: the starting
// revision number to stamp on the first emitted revision, and the byte
// sink node records are written to.
type Config struct {
	FromRev   int64
	OutStream io.Writer
}

// Editor is the callback surface a driver invokes in the grammar from
// spec.md §4.4:
//
//	EDIT      := OpenRoot DIR_BODY CloseEdit
//	DIR_BODY  := { ChangeDirProp | OpenDirectory DIR_BODY CloseDirectory
//	             | AddDirectory  DIR_BODY CloseDirectory
//	             | OpenFile  FILE_BODY CloseFile
//	             | AddFile   FILE_BODY CloseFile
//	             | DeleteEntry }
//	FILE_BODY := { ChangeFileProp | ApplyTextDelta (window)* }
//
// Violating this grammar (e.g. two CloseEdit calls, a callback after
// CloseEdit) is a driver-contract error; implementations may panic
// rather than return an error for such violations, per spec.md §7.
type Editor interface {
	OpenRoot(baseRevision int64) error
	DeleteEntry(path string) error
	AddDirectory(path string, copyFrom CopyFrom) error
	OpenDirectory(path string) error
	CloseDirectory() error
	ChangeDirProp(name, value []byte) error
	AddFile(path string, copyFrom CopyFrom) error
	OpenFile(path string) error
	ChangeFileProp(name, value []byte) error
	ApplyTextDelta() (WindowHandler, error)
	CloseFile(textChecksum string) error
	CloseEdit() error
}
