// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package flat implements the flat binary serialization of UPLC programs and
the CBOR envelope scripts travel in.

A program is serialized as its three version numbers followed by its term and
padding up to the next byte boundary.  Terms are identified by a four bit
tag, builtins by a seven bit tag, and constants carry the list of their type
tags ahead of their value.  Variables are written as one based de Bruijn
indices.

Scripts embedded in transactions wrap the flat bytes in a CBOR byte string,
and some producers wrap them twice.  UnwrapScript accepts both forms.
*/
package flat
