//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package node

import (
	"fmt"
	"strings"
)

// Sprint renders a node for diagnostics. Identifiers come out in source
// syntax (a.b.c, a[3], w[7:0]); everything else falls back to a compact
// prefix form. It is not a pretty-printer for whole models.
func Sprint(n *Node) string {
	var b strings.Builder
	sprint(&b, n)
	return b.String()
}

func sprint(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.tag {
	case TagAtom:
		b.WriteString(n.name)
	case TagNumber:
		fmt.Fprintf(b, "%d", n.num)
	case TagNumberUnsignedWord, TagNumberSignedWord:
		b.WriteString(n.w.String())
	case TagTrue:
		b.WriteString("TRUE")
	case TagFalse:
		b.WriteString("FALSE")
	case TagSelf:
		b.WriteString("self")
	case TagDot:
		if n.left != nil {
			sprint(b, n.left)
			b.WriteByte('.')
		}
		sprint(b, n.right)
	case TagArray:
		sprint(b, n.left)
		b.WriteByte('[')
		sprint(b, n.right)
		b.WriteByte(']')
	case TagBit:
		sprint(b, n.left)
		b.WriteByte('.')
		sprint(b, n.right)
	case TagBitSelection:
		sprint(b, n.left)
		b.WriteByte('[')
		if n.right != nil && n.right.tag == TagColon {
			sprint(b, n.right.left)
			b.WriteByte(':')
			sprint(b, n.right.right)
		} else {
			sprint(b, n.right)
		}
		b.WriteByte(']')
	case TagFailure:
		fmt.Fprintf(b, "FAILURE(%s)", n.fail.Kind)
	default:
		fmt.Fprintf(b, "(%d", int(n.tag))
		if n.left != nil || n.right != nil {
			b.WriteByte(' ')
			sprint(b, n.left)
			b.WriteByte(' ')
			sprint(b, n.right)
		}
		b.WriteByte(')')
	}
}
