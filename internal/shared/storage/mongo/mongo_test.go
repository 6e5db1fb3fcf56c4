package mongo

import "testing"

func TestIsMongoURL(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "mongodb://localhost:27017/app", want: true},
		{raw: " MONGODB+SRV://cluster.example.net/app ", want: true},
		{raw: "postgres://user@localhost/app", want: false},
		{raw: "", want: false},
	}
	for _, tt := range tests {
		if got := IsMongoURL(tt.raw); got != tt.want {
			t.Fatalf("IsMongoURL(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestDatabaseName(t *testing.T) {
	if got := DatabaseName("mongodb://localhost:27017/resumes", ""); got != "resumes" {
		t.Fatalf("expected path database, got %q", got)
	}
	if got := DatabaseName("mongodb://localhost:27017/resumes", "override"); got != "override" {
		t.Fatalf("expected override, got %q", got)
	}
	if got := DatabaseName("mongodb://localhost:27017", ""); got != defaultDatabase {
		t.Fatalf("expected default, got %q", got)
	}
}
