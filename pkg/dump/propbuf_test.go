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

import "testing"

func TestPropBufEmpty(t *testing.T) {
	p := NewPropBuf()
	if !p.Empty() {
		t.Fatal("fresh PropBuf should be empty")
	}
	if got := string(p.Serialize()); got != propsEndSentinel {
		t.Fatalf("empty buf serialized to %q, want %q", got, propsEndSentinel)
	}
}

func TestPropBufSetOrderPreserved(t *testing.T) {
	p := NewPropBuf()
	p.Set("svn:log", []byte("hello"))
	p.Set("svn:author", []byte("jrandom"))
	p.Set("svn:log", []byte("updated")) // overwrite, same slot

	want := "K 7\nsvn:log\nV 7\nupdated\n" +
		"K 10\nsvn:author\nV 7\njrandom\n" +
		propsEndSentinel
	if got := string(p.Serialize()); got != want {
		t.Fatalf("serialize =\n%q\nwant\n%q", got, want)
	}
}

func TestPropBufDelete(t *testing.T) {
	p := NewPropBuf()
	p.Delete("svn:executable")
	if p.Empty() {
		t.Fatal("a pending delete makes the buffer non-empty")
	}
	want := "D 14\nsvn:executable\n" + propsEndSentinel
	if got := string(p.Serialize()); got != want {
		t.Fatalf("serialize = %q, want %q", got, want)
	}
}

func TestPropBufDropsNonRegularNames(t *testing.T) {
	p := NewPropBuf()
	p.Set("svn:wc:ra_dav:version-url", []byte("x"))
	p.Set("svn:entry:committed-rev", []byte("1"))
	p.Delete("svn:wc:conflict")
	if !p.Empty() {
		t.Fatal("entry/wc-props must be dropped silently, not buffered")
	}
}

func TestPropBufReset(t *testing.T) {
	p := NewPropBuf()
	p.Set("svn:log", []byte("x"))
	p.Delete("svn:eol-style")
	p.Reset()
	if !p.Empty() {
		t.Fatal("Reset should clear both set and delete entries")
	}
	if got := string(p.Serialize()); got != propsEndSentinel {
		t.Fatalf("serialize after reset = %q, want %q", got, propsEndSentinel)
	}
}

func TestPropBufSetThenDeleteSameName(t *testing.T) {
	// Not collapsed: a name can legitimately appear in both Set and
	// Delete order across its lifetime within one record; PropBuf does
	// not try to reconcile history, only to serialize its current state.
	p := NewPropBuf()
	p.Set("svn:mime-type", []byte("text/plain"))
	p.Delete("svn:mime-type")
	want := "K 13\nsvn:mime-type\nV 10\ntext/plain\n" +
		"D 13\nsvn:mime-type\n" +
		propsEndSentinel
	if got := string(p.Serialize()); got != want {
		t.Fatalf("serialize = %q, want %q", got, want)
	}
}
