package model

import "testing"

func TestRoleValues(t *testing.T) {
	cases := []struct {
		name  string
		got   Role
		value string
	}{
		{"admin", RoleAdmin, "admin"},
		{"user", RoleUser, "user"},
		{"store", RoleStore, "store"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
			if !tc.got.Valid() {
				t.Fatalf("expected %s to be valid", tc.got)
			}
		})
	}

	for _, bad := range []Role{"", "root", "Admin"} {
		if bad.Valid() {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}

func TestUserViewOmitsHash(t *testing.T) {
	u := &User{ID: 1, Email: "a@b.com", Name: "Ann", Role: RoleUser, PasswordHash: "$2a$10$secret", Address: "Main st"}
	view := u.View()
	if view != (UserView{Name: "Ann", Email: "a@b.com", Role: RoleUser}) {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestUserClaims(t *testing.T) {
	u := &User{ID: 7, Email: "s@b.com", Name: "Shop", Role: RoleStore, PasswordHash: "hash"}
	claims := u.Claims()
	if claims != (Claims{UserID: 7, Email: "s@b.com", Name: "Shop", Role: RoleStore}) {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
