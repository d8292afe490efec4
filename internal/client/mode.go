package client

type Mode int

const (
	ModeChef Mode = iota
	ModeGuest
)

func (m Mode) String() string {
	if m == ModeGuest {
		return "guest"
	}

	return "chef"
}

// ResolveMode puts a client in guest mode only when it targets somebody
// else's menu. Targeting your own id is the same as targeting nobody.
func ResolveMode(ownChefId, targetChefId string) Mode {
	if targetChefId != "" && targetChefId != ownChefId {
		return ModeGuest
	}

	return ModeChef
}
