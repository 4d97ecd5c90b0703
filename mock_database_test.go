// Copyright 2017 Google Inc. All Rights Reserved.
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

package mssmt_test

import (
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/taprootassets/mssmt"
)

// mockDatabase is a gomock-based mssmt.Database double, hand-written in the
// shape `mockgen` would produce: it exists so engine tests can inject a
// backend that fails partway through a multi-step Insert, a path a real
// in-memory store never takes.
type mockDatabase struct {
	ctrl  *gomock.Controller
	inner mssmt.Database
}

func newMockDatabase(ctrl *gomock.Controller, inner mssmt.Database) *mockDatabase {
	return &mockDatabase{ctrl: ctrl, inner: inner}
}

func (m *mockDatabase) Root() (*mssmt.BranchNode, error) { return m.inner.Root() }
func (m *mockDatabase) UpdateRoot(root *mssmt.BranchNode) error {
	ret := m.ctrl.Call(m, "UpdateRoot", root)
	if err, ok := ret[0].(error); ok && err != nil {
		return err
	}
	return m.inner.UpdateRoot(root)
}
func (m *mockDatabase) Branch(hash mssmt.NodeHash) (*mssmt.BranchNode, error) {
	return m.inner.Branch(hash)
}
func (m *mockDatabase) InsertBranch(branch *mssmt.BranchNode) error {
	return m.inner.InsertBranch(branch)
}
func (m *mockDatabase) DeleteBranch(hash mssmt.NodeHash) error { return m.inner.DeleteBranch(hash) }
func (m *mockDatabase) Leaf(hash mssmt.NodeHash) (*mssmt.LeafNode, error) {
	return m.inner.Leaf(hash)
}
func (m *mockDatabase) InsertLeaf(leaf *mssmt.LeafNode) error { return m.inner.InsertLeaf(leaf) }
func (m *mockDatabase) DeleteLeaf(hash mssmt.NodeHash) error  { return m.inner.DeleteLeaf(hash) }
func (m *mockDatabase) CompactLeaf(hash mssmt.NodeHash) (*mssmt.CompactLeafNode, error) {
	return m.inner.CompactLeaf(hash)
}
func (m *mockDatabase) InsertCompactLeaf(leaf *mssmt.CompactLeafNode) error {
	return m.inner.InsertCompactLeaf(leaf)
}
func (m *mockDatabase) DeleteCompactLeaf(hash mssmt.NodeHash) error {
	return m.inner.DeleteCompactLeaf(hash)
}
func (m *mockDatabase) Children(height int, parentHash mssmt.NodeHash) (mssmt.Node, mssmt.Node, error) {
	return m.inner.Children(height, parentHash)
}
func (m *mockDatabase) EmptyTree() *mssmt.EmptyTree { return m.inner.EmptyTree() }

// expectUpdateRootFails records a single expected UpdateRoot call that
// returns err instead of delegating to the inner store.
func (m *mockDatabase) expectUpdateRootFails(err error) *gomock.Call {
	return m.ctrl.RecordCallWithMethodType(m, "UpdateRoot", reflect.TypeOf((*mockDatabase)(nil).UpdateRoot), gomock.Any()).Return(err)
}
