// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

// SlotConfig maps slots to POSIX time in milliseconds.  ZeroTime is the
// POSIX time of ZeroSlot and SlotLength is the length of a slot in
// milliseconds.
type SlotConfig struct {
	ZeroTime   uint64
	ZeroSlot   uint64
	SlotLength uint32
}

var (
	// MainnetSlotConfig is the slot configuration of the main network
	// since the Shelley hard fork.
	MainnetSlotConfig = SlotConfig{
		ZeroTime:   1596059091000,
		ZeroSlot:   4492800,
		SlotLength: 1000,
	}

	// PreviewSlotConfig is the slot configuration of the preview test
	// network.
	PreviewSlotConfig = SlotConfig{
		ZeroTime:   1666656000000,
		ZeroSlot:   0,
		SlotLength: 1000,
	}

	// PreprodSlotConfig is the slot configuration of the pre-production
	// test network.
	PreprodSlotConfig = SlotConfig{
		ZeroTime:   1655769600000,
		ZeroSlot:   86400,
		SlotLength: 1000,
	}
)

// SlotToPOSIXTime returns the POSIX time in milliseconds at the start of
// slot.  Slots before ZeroSlot are clamped to ZeroTime.
func (c SlotConfig) SlotToPOSIXTime(slot uint64) uint64 {
	if slot < c.ZeroSlot {
		return c.ZeroTime
	}
	return c.ZeroTime + (slot-c.ZeroSlot)*uint64(c.SlotLength)
}
