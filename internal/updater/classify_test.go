package updater

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClassifyFiles(t *testing.T) {
	rules := DefaultClassifyRules()

	tests := []struct {
		name  string
		files []string
		want  ChangeSet
	}{
		{
			name:  "backend manifest with frontend source",
			files: []string{"backend/package.json", "frontend/src/App.tsx"},
			want:  ChangeSet{NeedsDependencyInstall: true},
		},
		{
			name:  "frontend source with readme",
			files: []string{"frontend/src/App.tsx", "README.md"},
			want:  ChangeSet{FrontendOnly: true},
		},
		{
			name:  "backend source",
			files: []string{"backend/src/routes/update.ts"},
			want:  ChangeSet{NeedsProcessRestart: true},
		},
		{
			name:  "backend docs do not restart",
			files: []string{"backend/src/NOTES.md", "backend/src/todo.TXT"},
			want:  ChangeSet{},
		},
		{
			name:  "schema file",
			files: []string{"backend/prisma/schema.prisma"},
			want:  ChangeSet{NeedsDataMigration: true},
		},
		{
			name:  "migration file",
			files: []string{"backend/prisma/migrations/20240101_init/migration.sql"},
			want:  ChangeSet{NeedsDataMigration: true},
		},
		{
			name:  "seed script under schema dir",
			files: []string{"backend/prisma/seed.ts"},
			want:  ChangeSet{},
		},
		{
			name:  "frontend with migration is not frontend only",
			files: []string{"frontend/src/main.tsx", "backend/prisma/schema.prisma"},
			want:  ChangeSet{NeedsDataMigration: true},
		},
		{
			name:  "frontend with backend is not frontend only",
			files: []string{"frontend/src/main.tsx", "backend/src/index.ts"},
			want:  ChangeSet{NeedsProcessRestart: true},
		},
		{
			name:  "root lockfile",
			files: []string{"package-lock.json"},
			want:  ChangeSet{NeedsDependencyInstall: true},
		},
		{
			name:  "nested package json is not a recognized manifest",
			files: []string{"frontend/src/package.json"},
			want:  ChangeSet{FrontendOnly: true},
		},
		{
			name:  "empty diff",
			files: nil,
			want:  ChangeSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyFiles(tt.files, rules)
			tt.want.Files = tt.files
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_DiffFailureIsConservative(t *testing.T) {
	reg := &fakeRegistry{compareErr: errors.New("connection reset")}
	c := NewClassifier(reg, DefaultClassifyRules(), zap.NewNop())

	for _, pair := range [][2]string{{"v1.0.0", "v1.0.1"}, {"v0.1.0", "v9.0.0"}, {"", ""}} {
		cs := c.Classify(context.Background(), pair[0], pair[1])
		assert.True(t, cs.NeedsDependencyInstall)
		assert.True(t, cs.NeedsProcessRestart)
		assert.True(t, cs.NeedsDataMigration)
		assert.False(t, cs.FrontendOnly)
	}
}

func TestClassifier_UsesDiff(t *testing.T) {
	reg := &fakeRegistry{files: []string{"frontend/src/App.tsx"}}
	c := NewClassifier(reg, DefaultClassifyRules(), zap.NewNop())

	cs := c.Classify(context.Background(), "v1.0.0", "v1.1.0")
	assert.True(t, cs.FrontendOnly)
	assert.Equal(t, [2]string{"v1.0.0", "v1.1.0"}, reg.compared)
}
