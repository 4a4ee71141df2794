package input

// NumKeys is the size of the hexadecimal keypad (keys 0x0-0xF).
const NumKeys = 16

// Keypad holds the logical key state fed by a shell. It answers both
// questions the CPU asks: is a key held, and which key was just released.
type Keypad struct {
	held [NumKeys]bool
	// held state as of the previous KeyReleased query
	seen [NumKeys]bool
}

func New() *Keypad { return &Keypad{} }

// SetKeys replaces the held state for all keys at once.
func (k *Keypad) SetKeys(state [NumKeys]bool) { k.held = state }

func (k *Keypad) Press(key byte) {
	if key < NumKeys {
		k.held[key] = true
	}
}

func (k *Keypad) Release(key byte) {
	if key < NumKeys {
		k.held[key] = false
	}
}

// IsKeyDown reports whether key is held. Keys above 0xF are never held.
func (k *Keypad) IsKeyDown(key byte) bool {
	return key < NumKeys && k.held[key]
}

// KeyReleased returns the lowest key that was held at the previous query and
// is not held now. Without a release the held state is snapshotted for the
// next query. A reported release clears the snapshot, so keys still held then
// must be seen held again by a later query before their release counts.
func (k *Keypad) KeyReleased() (byte, bool) {
	for i := byte(0); i < NumKeys; i++ {
		if k.seen[i] && !k.held[i] {
			k.seen = [NumKeys]bool{}
			return i, true
		}
	}
	k.seen = k.held
	return 0, false
}

// Reset releases every key and forgets the snapshot.
func (k *Keypad) Reset() {
	k.held = [NumKeys]bool{}
	k.seen = [NumKeys]bool{}
}
