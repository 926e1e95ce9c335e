package card

// Document holds the authoritative in-memory profile for one editing session.
// All mutation flows through its methods so ordering and identifier invariants
// stay centralized; readers only ever see deep copies.
//
// A Document performs no I/O and carries no locking of its own. Callers that
// share one across goroutines (the web session layer does) must serialize
// access.
type Document struct {
	profile   Profile
	observers []func()
}

// NewDocument wraps a profile in an editable document.
func NewDocument(profile Profile) *Document {
	return &Document{profile: profile.Clone()}
}

// Profile returns a deep copy of the current profile state.
func (d *Document) Profile() Profile {
	return d.profile.Clone()
}

// Blocks returns a deep copy of the current block sequence.
func (d *Document) Blocks() []Block {
	return d.profile.Clone().Blocks
}

// Subscribe registers an observer invoked after every mutation.
func (d *Document) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	d.observers = append(d.observers, fn)
}

func (d *Document) notify() {
	for _, fn := range d.observers {
		fn()
	}
}

// AddBlock appends a new enabled block of the given type with its default
// payload and a fresh transient identifier. The only failure mode is an
// unknown type tag.
func (d *Document) AddBlock(t BlockType) (BlockID, error) {
	payload, err := DefaultPayload(t)
	if err != nil {
		return BlockID{}, err
	}
	block := Block{
		ID:      NewLocalBlockID(),
		Type:    t,
		Enabled: true,
		Payload: payload,
	}
	d.profile.Blocks = append(d.profile.Blocks, block)
	d.notify()
	return block.ID, nil
}

// RemoveBlock deletes the block with the given identifier. Removing an
// absent identifier is a silent no-op, not an error.
func (d *Document) RemoveBlock(id BlockID) {
	idx := d.indexOf(id)
	if idx < 0 {
		return
	}
	d.profile.Blocks = append(d.profile.Blocks[:idx], d.profile.Blocks[idx+1:]...)
	d.notify()
}

// UpdateBlockPayload replaces the block's payload wholesale; callers supply
// the full updated payload derived from the existing one. Updating an absent
// identifier is a silent no-op.
func (d *Document) UpdateBlockPayload(id BlockID, payload Payload) error {
	idx := d.indexOf(id)
	if idx < 0 {
		return nil
	}
	if payload == nil || !payload.matches(d.profile.Blocks[idx].Type) {
		return ErrPayloadMismatch
	}
	d.profile.Blocks[idx].Payload = payload.clone()
	d.notify()
	return nil
}

// SetBlockEnabled toggles whether a block appears on the public page. The
// block stays in the document either way so it remains editable.
func (d *Document) SetBlockEnabled(id BlockID, enabled bool) {
	idx := d.indexOf(id)
	if idx < 0 || d.profile.Blocks[idx].Enabled == enabled {
		return
	}
	d.profile.Blocks[idx].Enabled = enabled
	d.notify()
}

// ReorderBlock moves the block with identifier id into the slot previously
// occupied by targetID, shifting the blocks in between. The move is stable:
// the relative order of every other block is preserved. Moving a block onto
// itself, or naming an absent identifier, is a no-op.
func (d *Document) ReorderBlock(id, targetID BlockID) {
	if id == targetID {
		return
	}
	from := d.indexOf(id)
	to := d.indexOf(targetID)
	if from < 0 || to < 0 {
		return
	}
	moved := d.profile.Blocks[from]
	blocks := append(d.profile.Blocks[:from], d.profile.Blocks[from+1:]...)
	blocks = append(blocks, Block{})
	copy(blocks[to+1:], blocks[to:])
	blocks[to] = moved
	d.profile.Blocks = blocks
	d.notify()
}

// SetDisplayName replaces the profile display name.
func (d *Document) SetDisplayName(value string) {
	d.profile.DisplayName = value
	d.notify()
}

// SetTitle replaces the profile job title.
func (d *Document) SetTitle(value string) {
	d.profile.Title = value
	d.notify()
}

// SetCompany replaces the profile company.
func (d *Document) SetCompany(value string) {
	d.profile.Company = value
	d.notify()
}

// SetBio replaces the profile bio.
func (d *Document) SetBio(value string) {
	d.profile.Bio = value
	d.notify()
}

// SetAvatarURL replaces the avatar image reference.
func (d *Document) SetAvatarURL(value string) {
	d.profile.AvatarURL = value
	d.notify()
}

// SetCoverURL replaces the cover image reference.
func (d *Document) SetCoverURL(value string) {
	d.profile.CoverURL = value
	d.notify()
}

// SetThemeLayout replaces the theme layout, leaving the accent color alone.
func (d *Document) SetThemeLayout(layout Layout) {
	d.profile.Theme.Layout = layout
	d.notify()
}

// SetThemeColor replaces the theme accent color, leaving the layout alone.
func (d *Document) SetThemeColor(color string) {
	d.profile.Theme.PrimaryColor = color
	d.notify()
}

// Replace swaps the whole document state, used when hydrating from the store
// or adopting the store's authoritative response after a save.
func (d *Document) Replace(profile Profile) {
	d.profile = profile.Clone()
	d.notify()
}

func (d *Document) indexOf(id BlockID) int {
	if id.IsZero() {
		return -1
	}
	for i, b := range d.profile.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}
