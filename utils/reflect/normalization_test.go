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

package reflect_test

import (
	"errors"
	"reflect"
	"runtime"
	"sync"
	"testing"

	uref "dirpx.dev/modelreg/utils/reflect"
)

// Local test types.
type A struct{}
type G[T any] struct{ V T }
type Named int

func TestNormalize_BasicContainers(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
	}{
		{"plain", reflect.TypeOf(A{}), reflect.TypeOf(A{})},
		{"ptr", reflect.TypeOf(&A{}), reflect.TypeOf(A{})},
		{"slice", reflect.TypeOf([]A{}), reflect.TypeOf(A{})},
		{"array", reflect.TypeOf([2]A{}), reflect.TypeOf(A{})},
		{"slice of ptr", reflect.TypeOf([]*A{}), reflect.TypeOf(A{})},
		{"generic", reflect.TypeOf(G[int]{}), reflect.TypeOf(G[int]{})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.Normalize(tc.typ, 8)
			if err != nil {
				t.Fatalf("Normalize(%v) returned error: %v", tc.typ, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%v) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	if _, err := uref.Normalize(nil, 8); !errors.Is(err, uref.ErrReflectNilType) {
		t.Fatalf("nil: want ErrReflectNilType, got %v", err)
	}
	if _, err := uref.Normalize(reflect.TypeOf(struct{ X int }{}), 8); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
		t.Fatalf("anonymous struct: want ErrReflectTypeNotNamed, got %v", err)
	}
	if _, err := uref.Normalize(reflect.TypeOf(Named(0)), 8); !errors.Is(err, uref.ErrReflectNotStruct) {
		t.Fatalf("named int: want ErrReflectNotStruct, got %v", err)
	}
	if _, err := uref.Normalize(reflect.TypeOf(map[string]A{}), 8); !errors.Is(err, uref.ErrReflectNotStruct) {
		t.Fatalf("map: want ErrReflectNotStruct, got %v", err)
	}
}

func TestNormalize_MaxUnwrap(t *testing.T) {
	type PP = **A
	tt := reflect.TypeOf((*PP)(nil)).Elem() // **A

	if _, err := uref.Normalize(tt, 1); err == nil {
		t.Fatal("MaxUnwrap=1: expected failure for **A")
	}
	got, err := uref.Normalize(tt, 8)
	if err != nil || got != reflect.TypeOf(A{}) {
		t.Fatalf("MaxUnwrap=8: got (%v,%v), want (A,nil)", got, err)
	}
	// Non-positive limit falls back to the default.
	if _, err := uref.Normalize(tt, 0); err != nil {
		t.Fatalf("MaxUnwrap=0: unexpected error %v", err)
	}
}

func TestDeref(t *testing.T) {
	var p **int
	got, ptr := uref.Deref(reflect.TypeOf(p))
	if !ptr || got.Kind() != reflect.Int {
		t.Fatalf("Deref(**int) = (%v,%v), want (int,true)", got, ptr)
	}
	got, ptr = uref.Deref(reflect.TypeOf(0))
	if ptr || got.Kind() != reflect.Int {
		t.Fatalf("Deref(int) = (%v,%v), want (int,false)", got, ptr)
	}
}

func TestTypeName_StripsTypeParams(t *testing.T) {
	pkg, name := uref.TypeName(reflect.TypeOf(G[int]{}))
	if pkg != "reflect_test" || name != "G" {
		t.Fatalf("TypeName(G[int]) = (%q,%q), want (reflect_test,G)", pkg, name)
	}
}

// This test stresses Normalize under concurrency.
func TestNormalize_Concurrent(t *testing.T) {
	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(G[int]{}),
	}
	workers := runtime.GOMAXPROCS(0) * 4

	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				if _, err := uref.Normalize(types[i%len(types)], 8); err != nil {
					errCh <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("concurrent normalize failed: %v", err)
	}
}
