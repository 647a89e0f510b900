package auth

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj)
`

func TestCasbinService_PersistsPolicies(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	svc, err := NewCasbinService(db, "", testModel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.E.AddPolicy("ADMIN", "/admin/*"); err != nil {
		t.Fatalf("add policy: %v", err)
	}

	reloaded, err := NewCasbinService(db, "", testModel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := reloaded.E.Enforce("ADMIN", "/admin/content")
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if !ok {
		t.Error("expected policy to survive a reload")
	}
}

func TestCasbinService_BadModel(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewCasbinService(db, "/does/not/exist.conf", ""); err == nil {
		t.Error("expected error for missing model file")
	}
}
