package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"attendku_backend/internals/constants"
	authModel "attendku_backend/internals/features/users/auth/model"
	userModel "attendku_backend/internals/features/users/user/model"
)

func TestIssueClaims(t *testing.T) {
	issuer := TokenIssuer{AccessSecret: "a", RefreshSecret: "r", AccessTTL: time.Hour}
	tid := uuid.New()
	u := userModel.UserModel{ID: uuid.New(), UserName: "drsharma", Role: constants.RoleClassTeacher}
	now := time.Now()

	pair, err := issuer.Issue(u, authModel.UserLinks{TeacherID: &tid}, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(pair.AccessToken, claims, func(*jwt.Token) (any, error) { return []byte("a"), nil }); err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims["id"] != u.ID.String() || claims["role"] != constants.RoleClassTeacher || claims["teacher_id"] != tid.String() {
		t.Fatalf("claims = %v", claims)
	}
	if _, ok := claims["student_id"]; ok {
		t.Fatalf("student_id should be absent")
	}

	exp, ok := issuer.AccessExpiry(pair.AccessToken)
	if !ok || exp.Unix() != now.Add(time.Hour).Unix() {
		t.Fatalf("AccessExpiry = %v %v", exp, ok)
	}

	id, err := issuer.ParseRefresh(pair.RefreshToken)
	if err != nil || id != u.ID {
		t.Fatalf("ParseRefresh = %v %v", id, err)
	}
	if _, err := (TokenIssuer{AccessSecret: "a", RefreshSecret: "other"}).ParseRefresh(pair.RefreshToken); err == nil {
		t.Fatalf("refresh signed with another secret must fail")
	}
}

func TestIssueRequiresSecrets(t *testing.T) {
	if _, err := (TokenIssuer{AccessSecret: "a"}).Issue(userModel.UserModel{ID: uuid.New()}, authModel.UserLinks{}, time.Now()); err == nil {
		t.Fatalf("missing refresh secret must fail")
	}
}

func TestExpiredRefreshRejected(t *testing.T) {
	issuer := TokenIssuer{AccessSecret: "a", RefreshSecret: "r", RefreshTTL: time.Minute}
	pair, err := issuer.Issue(userModel.UserModel{ID: uuid.New()}, authModel.UserLinks{}, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.ParseRefresh(pair.RefreshToken); err == nil {
		t.Fatalf("expired refresh must fail")
	}
}

func TestComputeRefreshHash(t *testing.T) {
	a := ComputeRefreshHash("tok", "s1")
	if len(a) != 64 || a != ComputeRefreshHash("tok", "s1") || a == ComputeRefreshHash("tok", "s2") {
		t.Fatalf("hash not deterministic/keyed: %s", a)
	}
}
