// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// redeemerCBOR is the ledger serialization of a redeemer:
// [tag, index, data, [mem, steps]].
type redeemerCBOR struct {
	_       struct{} `cbor:",toarray"`
	Tag     uint8
	Index   uint32
	Data    cbor.RawMessage
	ExUnits [2]uint64
}

// EncodeRedeemer serializes r the way it appears in a witness set.
func EncodeRedeemer(r *Redeemer) ([]byte, error) {
	if r.Data == nil {
		return nil, errors.Errorf("redeemer %v/%d has no data", r.Tag,
			r.Index)
	}
	return cbor.Marshal(redeemerCBOR{
		Tag:     uint8(r.Tag),
		Index:   r.Index,
		Data:    plutusdata.Encode(r.Data),
		ExUnits: [2]uint64{r.ExUnits.Mem, r.ExUnits.Steps},
	})
}

// DecodeRedeemer parses a redeemer serialized by EncodeRedeemer.
func DecodeRedeemer(b []byte) (*Redeemer, error) {
	var raw redeemerCBOR
	if err := cbor.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding redeemer")
	}
	if raw.Tag > uint8(RedeemerReward) {
		return nil, errors.Errorf("unknown redeemer tag %d", raw.Tag)
	}
	data, err := plutusdata.Decode(raw.Data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding redeemer data")
	}
	return &Redeemer{
		Tag:     RedeemerTag(raw.Tag),
		Index:   raw.Index,
		Data:    data,
		ExUnits: ExUnits{Mem: raw.ExUnits[0], Steps: raw.ExUnits[1]},
	}, nil
}
