package testutil

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taskhive/groupsync/config"
	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/pkg/logger"
	"github.com/taskhive/groupsync/pkg/xcontext"
)

// MockContext builds a context with an in-memory cache database, test
// configs and a silent logger, matching what cmd assembles in
// production.
func MockContext() context.Context {
	// A named in-memory database keeps every pooled connection on the
	// same store while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "testing",
		Workspace: config.WorkspaceConfigs{
			WorkspaceID: WorkspaceID,
		},
	}
	cfg.ApplyDefaults()

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	return ctx
}

// MockContextWithUser is MockContext with a request user attached.
func MockContextWithUser(user entity.User) context.Context {
	return xcontext.WithRequestUser(MockContext(), user)
}
