package service

// Viewer is the acting user of an operation. The zero value is the anonymous viewer.
type Viewer struct {
	UserID string
}

func Anonymous() Viewer {
	return Viewer{}
}

func UserViewer(userID string) Viewer {
	return Viewer{UserID: userID}
}

func (v Viewer) IsAnonymous() bool {
	return v.UserID == ""
}
