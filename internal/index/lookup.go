package index

// ChannelLocation identifies a channel within an IndexedFile by its
// (group, channel) position.
type ChannelLocation struct {
	GroupIdx   int
	ChannelIdx int
}

// FindChannelByNameGlobal returns the first channel matching name, scanning
// groups in order. found is false if no channel matches.
func (idx *IndexedFile) FindChannelByNameGlobal(name string) (loc ChannelLocation, found bool) {
	for gi, g := range idx.Groups {
		for ci, ch := range g.Channels {
			if ch.Name == name {
				return ChannelLocation{GroupIdx: gi, ChannelIdx: ci}, true
			}
		}
	}
	return ChannelLocation{}, false
}

// FindAllChannelsByName returns every channel matching name across every
// group, in group/channel order.
func (idx *IndexedFile) FindAllChannelsByName(name string) []ChannelLocation {
	var out []ChannelLocation
	for gi, g := range idx.Groups {
		for ci, ch := range g.Channels {
			if ch.Name == name {
				out = append(out, ChannelLocation{GroupIdx: gi, ChannelIdx: ci})
			}
		}
	}
	return out
}
