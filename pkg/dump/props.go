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
	"fmt"
	"strings"
)

// nonRegularPrefixes table-drives property classification per spec.md
// §9 ("reflection-free... table-driven on the prefix of the name"): no
// runtime lookup into a host SVN library, just a prefix match against
// the two namespaces the dump format never carries — entry-props (only
// meaningful to a working copy) and wc-props (server-opaque cache
// data). Everything else, including plain "svn:*" versioned props and
// arbitrary user props, is regular.
var nonRegularPrefixes = []string{
	"svn:wc:",
	"svn:entry:",
}

// isRegularProp reports whether name belongs to the versioned,
// dumpfile-visible property namespace.
func isRegularProp(name string) bool {
	for _, p := range nonRegularPrefixes {
		if strings.HasPrefix(name, p) {
			return false
		}
	}
	return true
}

// PropBuf accumulates the set/deleted properties for the node currently
// being described and serializes them to the dumpfile's textual
// property block (spec.md §4.1). Non-regular properties are silently
// dropped on Set/Delete, matching the original dump_editor's (never
// reached in practice) handling of entry/wc props.
type PropBuf struct {
	order []string
	set   map[string][]byte
	delOr []string
	del   map[string]struct{}
}

// NewPropBuf returns an empty PropBuf.
func NewPropBuf() *PropBuf {
	return &PropBuf{
		set: make(map[string][]byte),
		del: make(map[string]struct{}),
	}
}

// Set records name=value to be emitted as a "K/V" entry. A later Set of
// the same name overwrites the value without duplicating the order
// slot. Non-regular names are silently dropped.
func (p *PropBuf) Set(name string, value []byte) {
	if !isRegularProp(name) {
		return
	}
	if _, ok := p.set[name]; !ok {
		p.order = append(p.order, name)
	}
	p.set[name] = value
}

// Delete records name as deleted, to be emitted as a "D" entry.
func (p *PropBuf) Delete(name string) {
	if !isRegularProp(name) {
		return
	}
	if _, ok := p.del[name]; !ok {
		p.delOr = append(p.delOr, name)
		p.del[name] = struct{}{}
	}
}

// Empty reports whether no regular property has been buffered.
func (p *PropBuf) Empty() bool {
	return len(p.order) == 0 && len(p.delOr) == 0
}

// Reset clears all buffered properties, as done after every flush.
func (p *PropBuf) Reset() {
	p.order = p.order[:0]
	p.delOr = p.delOr[:0]
	for k := range p.set {
		delete(p.set, k)
	}
	for k := range p.del {
		delete(p.del, k)
	}
}

// propsEndSentinel terminates every serialized property block.
const propsEndSentinel = "PROPS-END\n"

// Serialize writes, in order, one "K <namelen>\n<name>\nV <vallen>\n<value>\n"
// entry per set key followed by one "D <namelen>\n<name>\n" entry per
// deleted key, then the PROPS-END sentinel (spec.md §4.1).
func (p *PropBuf) Serialize() []byte {
	var b strings.Builder
	for _, name := range p.order {
		value := p.set[name]
		fmt.Fprintf(&b, "K %d\n%s\n", len(name), name)
		fmt.Fprintf(&b, "V %d\n", len(value))
		b.Write(value)
		b.WriteByte('\n')
	}
	for _, name := range p.delOr {
		fmt.Fprintf(&b, "D %d\n%s\n", len(name), name)
	}
	b.WriteString(propsEndSentinel)
	return []byte(b.String())
}
