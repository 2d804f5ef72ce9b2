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
	"github.com/google/btree"

	"github.com/juicedata/svnrdump/pkg/editor"
)

// pathItem is a btree.Item wrapping a path string, used for DirFrame's
// deleted_entries set. spec.md §9 flags the original's choice to store
// the directory frame itself as the map value when only the key's
// presence is meaningful ("Use a set, not a map") — google/btree (a
// teacher dependency) gives an ordered set with deterministic iteration,
// which close_directory's standalone-delete flush relies on for
// reproducible output.
type pathItem string

func (p pathItem) Less(than btree.Item) bool {
	return p < than.(pathItem)
}

// DirFrame is one open directory's frame on EditState's edit stack
// (spec.md §3). Children never hold a mutable pointer to their parent —
// only EditState's stack owns DirFrames; a child that needs its
// parent's comparison source reads it at push time and copies what it
// needs, per spec.md §9's explicit guidance.
type DirFrame struct {
	path string // absolute, leading "/" included internally

	cmpPath string // inherited comparison source, "" if none
	cmpRev  int64  // editor.InvalidRevnum if cmpPath == ""

	added      bool // created by add_directory, not open_directory
	writtenOut bool // a node record for this dir was already emitted this revision
	headerOpen bool // that record's header was emitted but not yet terminated

	deletedEntries *btree.BTree // set of child paths queued by delete_entry
}

func newDirFrame(path string, added bool) *DirFrame {
	return &DirFrame{
		path:           path,
		cmpRev:         editor.InvalidRevnum,
		added:          added,
		deletedEntries: btree.New(16),
	}
}

// hasComparisonSource reports whether this frame inherited a copy
// comparison source from an ancestor.
func (f *DirFrame) hasComparisonSource() bool {
	return f.cmpPath != ""
}

// queueDelete records path as pending deletion, not yet emitted — a
// following add_directory/add_file may upgrade it to a replace.
func (f *DirFrame) queueDelete(path string) {
	f.deletedEntries.ReplaceOrInsert(pathItem(path))
}

// unqueueDelete removes path from the pending-delete set, called when
// an add for the same path upgrades the pair into a replace.
func (f *DirFrame) unqueueDelete(path string) bool {
	item := f.deletedEntries.Delete(pathItem(path))
	return item != nil
}

// flushDeletes calls fn once per remaining queued path, in ascending
// order, then empties the set. Order between multiple deletions is not
// semantically significant (spec.md §5) but must be some fixed order
// for reproducible dumps; ascending path order is that order.
func (f *DirFrame) flushDeletes(fn func(path string)) {
	var pending []string
	f.deletedEntries.Ascend(func(item btree.Item) bool {
		pending = append(pending, string(item.(pathItem)))
		return true
	})
	for _, p := range pending {
		fn(p)
	}
	f.deletedEntries.Clear(false)
}

// EditState holds everything shared across callbacks for one active
// edit / revision (spec.md §3). DirFrames live on dirStack, LIFO,
// matching "for every directory open, there is exactly one matching
// close; the stack is LIFO" (invariant 2).
// EditState keeps two deferred-work flags distinct rather than reusing
// one field for both directory and file bookkeeping (DESIGN.md's Open
// Question decisions resolve an ambiguity here: the original's must_dump_props/
// dump_props_pending fields overlap in a way that only works because a
// directory's open record and a file's open record are never live at the
// same time — this implementation keeps that invariant implicit in code
// structure instead of in shared mutable state):
//
//   - dirPropsPending: the current top directory has an emitted-but-not-
//     yet-terminated "add" or "replace" record awaiting its property block,
//     flushed by the next structural callback or close_directory.
//   - fileMustDumpText: apply_textdelta has opened a DeltaSink for the
//     file currently being described, to be spliced at close_file.
//
// A file's properties are tracked directly via props.Empty() at
// close_file time — no separate flag needed.
type EditState struct {
	currentRev int64

	props *PropBuf

	isCopy           bool
	dirPropsPending  bool
	fileMustDumpText bool

	pool *ScratchPool
	sink *DeltaSink

	currentNodePath string
	currentNodeKind editor.Kind

	dirStack []*DirFrame
}

// newEditState creates the per-edit state, matching open_root's "EditState
// is created when the edit begins" (spec.md §3 Lifecycle).
func newEditState(fromRev int64, pool *ScratchPool) *EditState {
	return &EditState{
		currentRev: fromRev,
		props:      NewPropBuf(),
		pool:       pool,
	}
}

func (s *EditState) top() *DirFrame {
	if len(s.dirStack) == 0 {
		return nil
	}
	return s.dirStack[len(s.dirStack)-1]
}

func (s *EditState) push(f *DirFrame) {
	s.dirStack = append(s.dirStack, f)
}

// pop removes and returns the top frame. Calling pop on an empty stack
// is a driver-contract violation (an unmatched close_directory).
func (s *EditState) pop() *DirFrame {
	if len(s.dirStack) == 0 {
		driverContractViolation("close_directory with no open directory")
	}
	f := s.dirStack[len(s.dirStack)-1]
	s.dirStack = s.dirStack[:len(s.dirStack)-1]
	return f
}
