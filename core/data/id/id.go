// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package id provides a content-addressed identifier used to deduplicate
// shader blobs discovered on disk.
package id

import (
	"encoding/hex"
	"fmt"
)

// Size is the size of an ID.
const Size = 20

// ID is a codeable unique identifier.
type ID [Size]byte

// IsValid returns true if the id is not the default value.
func (id ID) IsValid() bool { return id != ID{} }

func (id ID) Format(f fmt.State, c rune) { fmt.Fprintf(f, "%x", id[:]) }

func (id ID) String() string { return hex.EncodeToString(id[:]) }
