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

import "log/slog"

// Config carries read-only knobs that influence resolution and logging.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// SuggestionDistance is the maximum edit distance for "did you mean"
	// suggestions. Zero selects an automatic threshold based on the length
	// of the unknown name; a negative value disables suggestions.
	SuggestionDistance int

	// RelationSeparator joins the segments of a relation path ("author__name").
	RelationSeparator string

	// MaxRelationDepth limits how many relations a path may traverse.
	MaxRelationDepth int

	// ExcludedSuffixes lists name suffixes (e.g. "_ptr") left out of smart defaults.
	ExcludedSuffixes []string

	// DiscriminatorNames lists field names treated as internal type
	// discriminators and left out of smart defaults.
	DiscriminatorNames []string

	// Logger receives registration, build and warning events. Nil discards.
	Logger *slog.Logger
}
