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

package apis

// Namer lets a Go type choose its own "namespace.TypeName" identifier
// instead of the one derived from its package and type name.
//
//	func (Post) EntityName() string { return "blog.Post" }
type Namer interface {
	EntityName() string
}

// Describer augments Namer with a human-oriented description of the type.
// The description becomes the descriptor's and the Configuration's default
// description.
type Describer interface {
	EntityDescription() string
}
