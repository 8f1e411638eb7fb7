// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rollinghash

import (
	"encoding/binary"
	"math/bits"
)

// WindowSize is the number of trailing bytes that determine the hash
// state.
const WindowSize = 64

// Size is the length in bytes of the big-endian encoding returned by
// [Hash.Sum].
const Size = 8

// Feed returns the state after adding in to a window that has not yet
// reached WindowSize bytes.
func Feed(state uint64, in byte) uint64 {
	return bits.RotateLeft64(state, 1) ^ table[in]
}

// Roll returns the state after sliding a full window by one byte: out
// leaves the window and in enters it.
func Roll(state uint64, out, in byte) uint64 {
	return bits.RotateLeft64(state, 1) ^ bits.RotateLeft64(table[out], WindowSize%64) ^ table[in]
}

// Hash tracks the window contents alongside the state so callers can
// push bytes one at a time without managing eviction themselves. The
// zero value is an empty hash ready for use.
//
// Hash implements [hash.Hash64]. Sum appends the state as 8 big-endian
// bytes.
type Hash struct {
	state  uint64
	window [WindowSize]byte
	filled int
	oldest int
}

// New returns an empty rolling hash.
func New() *Hash {
	return &Hash{}
}

// Update pushes one byte and returns the new state.
func (h *Hash) Update(in byte) uint64 {
	if h.filled < WindowSize {
		h.window[h.filled] = in
		h.filled++
		h.state = Feed(h.state, in)
		return h.state
	}
	out := h.window[h.oldest]
	h.window[h.oldest] = in
	h.oldest++
	if h.oldest == WindowSize {
		h.oldest = 0
	}
	h.state = Roll(h.state, out, in)
	return h.state
}

// WriteByte implements [io.ByteWriter]. It never fails.
func (h *Hash) WriteByte(in byte) error {
	h.Update(in)
	return nil
}

// Write implements [io.Writer]. It never fails.
func (h *Hash) Write(data []byte) (int, error) {
	for _, in := range data {
		h.Update(in)
	}
	return len(data), nil
}

// Sum64 returns the current state.
func (h *Hash) Sum64() uint64 { return h.state }

// Sum appends the big-endian state to b.
func (h *Hash) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint64(b, h.state)
}

// Filled reports how many bytes are in the window, saturating at
// WindowSize.
func (h *Hash) Filled() int { return h.filled }

// Reset empties the window and zeroes the state.
func (h *Hash) Reset() { *h = Hash{} }

// Size returns [Size].
func (h *Hash) Size() int { return Size }

// BlockSize returns 1: the hash consumes input a byte at a time.
func (h *Hash) BlockSize() int { return 1 }

// Sum64Of returns the state after pushing all of data through a fresh
// Hash.
func Sum64Of(data []byte) uint64 {
	var h Hash
	h.Write(data)
	return h.state
}

// table maps each byte value to a 64-bit constant. The entries are the
// first 256 outputs of splitmix64 seeded with the ASCII bytes
// "okid.rol".
var table = [256]uint64{
	0xead9f558da5ecad5, 0x1971d7a0bce314d1, 0x63715d6da5c61a24, 0x8fc2b39477c4355f,
	0x98d97c6227f22e74, 0x1976dc8890c65625, 0x8e86b7bc12304605, 0x577a34e4d42b8b93,
	0x0ca9faeb42ac934a, 0x12ecc507acd04595, 0xed2fdf8b982e8e53, 0x35d5dfd02a4e504d,
	0xca9a9713779b4455, 0xdfe95a9b04ff3ba0, 0x3c3a7025704de086, 0xf238fe5390cc59cc,
	0x4add7b05118f1411, 0x163c64b013b60241, 0x8123a1300eb83b66, 0x3efa2cef2a1c2fb1,
	0xcb9220dbdc591101, 0x8f8ce6d8a55e18fa, 0x14950cae7ad908f2, 0x615c2cda1cac9b3f,
	0xd7ebdb6dd3168e89, 0xc68ac0f320ce4a9b, 0x8c84e01b1d3ef0c8, 0xd42d296d3020ef3d,
	0xf8a0bd25a2b2d620, 0xcdcf388bf6253ed8, 0x72583768750d687f, 0x1fce1c5d015c3bd8,
	0x6b0a3d703e97c5a9, 0x929fc171397d63a6, 0x827dac6d2273a8cb, 0x8fd13738f12dcbb5,
	0xd834624bfc708086, 0x320d903917673733, 0x3fa852b284a04218, 0x8973150c950ab86e,
	0x684cfe7733d84a36, 0xcb8462370695d170, 0x1938ce4081d04b49, 0x014b1c1cbc4d5aee,
	0x5e7141ca078a7f93, 0x62baa5168e7d1ff1, 0x36d93a2e9619f243, 0x422e1da78b3cae0f,
	0x383b6e8785867756, 0x100ed4062436302c, 0x39844aee992b9dbd, 0xbd001d92856d28f0,
	0x09d206ea10bd0958, 0x59e49502166aa8c7, 0x412b8aaaf56c83d1, 0x040ed509497af305,
	0x7e8d1b68364a8ca4, 0x7b808e2461df181b, 0xbcfe61ab5f980dfd, 0xd57f66713c444fb3,
	0xd4907cf0d76b1c38, 0x1b4fad2223f56853, 0x0449076d71e566a2, 0x79addee603c99c2b,
	0xa3fdef6d5d074809, 0xd11caff7a8d1a6fc, 0xac652179044a8067, 0x10373129df741e59,
	0x7c8d656fddceb8e2, 0xa1271a7fe7e735da, 0x1ab17eee53497641, 0x2566e2e58bd47411,
	0xbc6894132d65e9e4, 0x48ec8c5a2cc67f94, 0x284956dcf84f63c0, 0x038c0043ca5c8dfe,
	0xe365af016b4ea986, 0x68f453adcdcd62f0, 0xe5172447c25009d7, 0x96dbd5a66e690fc8,
	0x45fda6ccadbb1e23, 0x6bf9a9f75413d517, 0xf7e2673f775c6f98, 0x8de249c1b57b6332,
	0x70192b7bcb4e6f39, 0x2702ccf15fec7f7a, 0xef00f823cffb6fa1, 0xc1b559818f918154,
	0x35d9aa63d00b2eb5, 0xd1c23cb3a0023e54, 0xdf73cb2733493589, 0xc83b246ba7487bef,
	0x44c05359f3836092, 0x47649d28623a4d56, 0x3890fba5968f842e, 0x04a7ff39b02aa325,
	0xae346065c0c3dff7, 0x0abe7b6fc3115240, 0x89d5dc736b854390, 0x8d249c289069862d,
	0x5501854c820e5a7e, 0x6c6630cbf2768928, 0x4e66b6d26936df4b, 0x04282d18a1aca9f7,
	0xe344a284f93b5d4f, 0x46a84d5a9a9a6b89, 0xcc1487ccf434ab7f, 0xc1eaf041bbd7b813,
	0x7688d3f6720ddeef, 0x5745f649d3a64ddb, 0xe496c6729897bdaf, 0x5c40d6781e49823f,
	0x03c93f9be4a61e62, 0xc6741cf44175da3b, 0xa845a62972d9755d, 0x1261edc4501c41c0,
	0xfc92775bc90731d4, 0x1b98ffb84b2de1cd, 0x03da3c234184d94e, 0xa7c0c405781d9e3d,
	0xa62bc49e89625e6e, 0x9dac9ed2e5a1471e, 0x031730a01dafcce5, 0x9d22e05281ddaf2a,
	0x77268bf531c3fd0e, 0x5ecd2930673804ba, 0x860535f956ba5aba, 0x92cf7a5d2ff0643a,
	0xb40847f2a3dd2fd5, 0x806ed94d7d17a0cb, 0x6ec51e7afacdb9c2, 0xba2b7fa42bf3fd31,
	0xd0cff31bc7ab70a1, 0xccee65f84e8bec77, 0x22d10da522426353, 0x7a00e5e413d7b248,
	0xf5c7729e23d71f31, 0x9fdd26f872309639, 0x98691bf903e23c04, 0x2388f46e1823048e,
	0xcfe68bbe293dc914, 0x1de84befa81efdef, 0xd34a3ec57a6b66dc, 0x1905a668ce427d9b,
	0xd95e1ddae8498faf, 0x509589a183d48f22, 0xc46da03c080d29dd, 0x263a6404f7e6b481,
	0xcfa09d1577ea5098, 0xd107b193a4b62666, 0xa47e49d6d0d8b528, 0xc0a464e9b2cdfce8,
	0xf9d588c5ed198dd6, 0x0c94c05b55626fee, 0x68dd46cd6e8ce5cc, 0x71568f6c64b0de9e,
	0x50a5e03971f5e712, 0x13e7c27c99435e68, 0x007ec32875b953ce, 0xf7bde4d605c962ed,
	0xc3dd781646aace26, 0xd9c3f5f012e73ac1, 0xc3b4c8c3bba768b5, 0x0e40b94532250462,
	0xbc420ae7742c3c30, 0x85d8f43b769d4748, 0x42ea44c78e9a9edd, 0xf8d67d7376324b0a,
	0x38c71f721ebe581a, 0x9bc8bfb7576abf19, 0x41a35f5dadaab826, 0x1fa79ce2bf9cfa43,
	0x85b8a0c98245b484, 0x7700fe63f025840c, 0x636e52574a0d5cbe, 0x86258c7261c316cc,
	0xca8b836e3f2e0d36, 0x550c427f2914bd65, 0xb2d86e8b8078b136, 0xc4eb2a9acf1a5073,
	0xc1a013b72f401766, 0x40c12569787587e9, 0xefc20f6787f07428, 0x0cf40f463a143b21,
	0x7c6277fcc1eabdc4, 0x248910178ea36cea, 0x577b6d7a9f0b676e, 0x0c2eb043ca0c45d2,
	0xe8759ef0e28eccf3, 0x04ac0fef10eabb36, 0x588b6cf9a96b54be, 0x269667644ac9d587,
	0x0ba0870730bd98a3, 0x64a651a192c8038e, 0xfc6556c3aecc89e3, 0x76eb6918310749fa,
	0x55f58719156b3913, 0x9c5453964221dcb0, 0xfc325cfc271fd3a0, 0x97bc8a6cadde2366,
	0xd2d06f7344e5539d, 0xb975b7299348145a, 0xbedfdaa44434e879, 0xc7a37517e9cda84e,
	0xcdea24376ff288c0, 0xcfc8737d17af2b96, 0x0dc567c0b7dbe0e8, 0x23a1d97c1ac8200d,
	0x4a9eadaf3eef1d2d, 0x3580e310c6e185ff, 0x65c0e760e86b1429, 0x5df0a90dce821c79,
	0xca3202b516b70896, 0x952e7c1cef73f665, 0x28c56a28ce3ced4f, 0x8a7dc806853977fa,
	0x279a15fbb4809954, 0xcc69eb2eadfeafb9, 0x23740d44b4bcc1d1, 0x7edc3d0ebb4c7d39,
	0xcc462833339fcaa4, 0xdae298feea647372, 0x1b6bafa7438366e7, 0xc4b717aa1c554de0,
	0xfbac43c26ac28925, 0xfe231e7e3ef5ef59, 0x54c9f5a02afcabf9, 0xe04d66eabcc4b77c,
	0x7b4295dd424c527b, 0x52192a804c6fb419, 0x53aa477cf347c622, 0xd99473790acab039,
	0xeeae484f6fe8792d, 0x58d52281899307c5, 0x79664d3b6cb2f24b, 0x997df40b4e2acb83,
	0x5c87decce8e3ef53, 0xcdb13cb08da5154e, 0x6b91ee66ccf53ef3, 0x4a36bb5aefaaa5b2,
	0xceeb64eb9fb756fb, 0xdb92687dc1d27bfc, 0xc4661882632961ca, 0x110deb64692ba2a2,
	0x0d2dd4c4fec94e52, 0x788381c5026f9bfe, 0xc7e400e7dff050ef, 0x9eb9bf346432b721,
	0x3b1d3a701d721641, 0x963aff6012a348c7, 0x69f3c56ff8afc81e, 0x6e5e35f050b1420f,
	0xb3d6d5cefe331710, 0x630cdb296d7b46c8, 0x6291aab1326f0990, 0x564f026adb5ff685,
}
