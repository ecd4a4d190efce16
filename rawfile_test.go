// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import "testing"

func TestIsSupportedVersion(t *testing.T) {
	cases := []struct {
		version uint32
		want    bool
	}{
		{56, false},
		{57, true},
		{66, true},
		{67, false},
	}
	for _, c := range cases {
		if got := IsSupportedVersion(c.version); got != c.want {
			t.Errorf("IsSupportedVersion(%d) = %v, want %v", c.version, got, c.want)
		}
	}
}

func TestVersionPredicates(t *testing.T) {
	if Uses64BitAddresses(63) {
		t.Error("Uses64BitAddresses(63) = true, want false")
	}
	if !Uses64BitAddresses(64) {
		t.Error("Uses64BitAddresses(64) = false, want true")
	}
	if HasCycleAndDataSize(64) {
		t.Error("HasCycleAndDataSize(64) = true, want false")
	}
	if !HasCycleAndDataSize(65) {
		t.Error("HasCycleAndDataSize(65) = false, want true")
	}
	if HasIsolationWidthOffset(65) {
		t.Error("HasIsolationWidthOffset(65) = true, want false")
	}
	if !HasIsolationWidthOffset(66) {
		t.Error("HasIsolationWidthOffset(66) = false, want true")
	}
}

func TestIsUnimplementedPacketType(t *testing.T) {
	implemented := []PacketType{0, 1, 2, 3, 5, 18, 19, 20, 21}
	for _, pt := range implemented {
		if IsUnimplementedPacketType(pt) {
			t.Errorf("IsUnimplementedPacketType(%d) = true, want false", pt)
		}
	}
	unimplemented := []PacketType{4, 6, 7, 22, 23}
	for _, pt := range unimplemented {
		if !IsUnimplementedPacketType(pt) {
			t.Errorf("IsUnimplementedPacketType(%d) = false, want true", pt)
		}
	}
}
