package user

// CheckDeletion enforces the account-deletion safeguards: an actor may not
// delete their own account, and a deletion may not remove every admin.
// adminCount is the number of admins currently stored.
func CheckDeletion(actorID string, targets []User, adminCount int) error {
	removedAdmins := 0
	for _, t := range targets {
		if t.ID == actorID {
			return ErrCannotDeleteSelf
		}
		if t.Role == RoleAdmin {
			removedAdmins++
		}
	}

	if removedAdmins > 0 && adminCount-removedAdmins < 1 {
		return ErrLastAdmin
	}
	return nil
}

// CheckRoleChange prevents demoting the last admin and self role changes.
func CheckRoleChange(actorID string, target User, newRole Role, adminCount int) error {
	if target.ID == actorID {
		return ErrCannotChangeOwnRole
	}
	if target.Role == RoleAdmin && newRole != RoleAdmin && adminCount <= 1 {
		return ErrLastAdmin
	}
	return nil
}
