package domain

// CanViewContent reports whether a role may read topics and take tests.
func CanViewContent(role Role) bool {
	return role.Valid()
}

// CanCreateContent reports whether a role may author questions and topics.
func CanCreateContent(role Role) bool {
	return role == RoleTeacher || role == RoleAdmin
}

// CanAuthor reports whether actingUserID may modify an item owned by ownerID.
// Admins may modify anything. Teachers may modify items they created or items with no recorded owner.
func CanAuthor(role Role, ownerID, actingUserID string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleTeacher:
		return ownerID == "" || ownerID == actingUserID
	}
	return false
}

// CanAdminister reports whether a role may manage users, delete topics and see global stats.
func CanAdminister(role Role) bool {
	return role == RoleAdmin
}
