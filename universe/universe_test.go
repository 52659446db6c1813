/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package universe_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/descriptor"
	"dirpx.dev/modelreg/universe"
)

func desc(ns, name string) *descriptor.Descriptor {
	return descriptor.MustNew(apis.Identity{Namespace: ns, Name: name}, []*descriptor.Field{descriptor.ID()})
}

func TestUniverse_GetAndLookup(t *testing.T) {
	post := desc("blog", "BlogPost")
	u := universe.MustNew(post, desc("blog", "Author"))

	got, ok := u.Get(apis.Identity{Namespace: "blog", Name: "BlogPost"})
	require.True(t, ok)
	assert.Same(t, post, got)

	_, ok = u.Get(apis.Identity{Namespace: "blog", Name: "blogpost"})
	assert.False(t, ok, "Get is exact")

	for _, name := range []string{"BlogPost", "blogpost", "BLOGPOST", "bLoGpOsT"} {
		got, ok := u.Lookup("blog", name)
		require.True(t, ok, name)
		assert.Same(t, post, got, name)
	}

	_, ok = u.Lookup("Blog", "BlogPost")
	assert.False(t, ok, "namespace is exact")
	_, ok = u.Lookup("blog", "")
	assert.False(t, ok)
	assert.Equal(t, 2, u.Count())
}

func TestUniverse_Add(t *testing.T) {
	u := universe.MustNew()
	post := desc("blog", "Post")
	require.NoError(t, u.Add(post))
	require.NoError(t, u.Add(post), "same descriptor is idempotent")
	require.NoError(t, u.Add(desc("blog", "Post")), "same identity keeps the first")
	assert.Equal(t, 1, u.Count())
	got, _ := u.Get(apis.Identity{Namespace: "blog", Name: "Post"})
	assert.Same(t, post, got)

	err := u.Add(desc("blog", "POST"))
	assert.ErrorIs(t, err, universe.ErrConflictingDescriptor)

	assert.ErrorIs(t, u.Add(nil), universe.ErrNilDescriptor)

	_, err = universe.New(desc("a", "X"), desc("a", "x"))
	assert.ErrorIs(t, err, universe.ErrConflictingDescriptor)
}

func TestUniverse_DescriptorsSorted(t *testing.T) {
	u := universe.MustNew(desc("shop", "Order"), desc("blog", "Post"), desc("blog", "Author"))
	var names []string
	for _, d := range u.Descriptors() {
		names = append(names, d.Identity().String())
	}
	assert.Equal(t, []string{"blog.Author", "blog.Post", "shop.Order"}, names)

	u.Reset()
	assert.Zero(t, u.Count())
	assert.Empty(t, u.Descriptors())
}

func TestUniverse_ConcurrentAdd(t *testing.T) {
	u := universe.MustNew()
	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := desc("ns", fmt.Sprintf("T%d", i%8))
			_ = u.Add(d)
			_, _ = u.Lookup("ns", fmt.Sprintf("t%d", i%8))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, u.Count())
}
