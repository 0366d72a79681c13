package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskhive/groupsync/config"
	"github.com/taskhive/groupsync/internal/client"
	"github.com/taskhive/groupsync/internal/common"
	"github.com/taskhive/groupsync/internal/domain"
	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/internal/repository"
	"github.com/taskhive/groupsync/pkg/api"
	"github.com/taskhive/groupsync/pkg/authenticator"
	"github.com/taskhive/groupsync/pkg/kv"
	"github.com/taskhive/groupsync/pkg/logger"
	"github.com/taskhive/groupsync/pkg/xcontext"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs *config.Configs
	store   kv.Store

	groupRepo   repository.GroupRepository
	messageRepo repository.MessageRepository

	workspaceCaller client.WorkspaceCaller

	tracker          *domain.UnreadTracker
	syncEngine       *domain.MessageSyncEngine
	membershipEditor *domain.MembershipEditor
	bulkRunner       *domain.BulkRunner
	directoryDomain  domain.DirectoryDomain
}

// load assembles the whole engine for one command invocation. The
// phases build up s.ctx the way every domain expects to find it.
func (s *srv) load(configPath string) error {
	s.ctx = context.Background()

	if err := s.loadConfig(configPath); err != nil {
		return err
	}

	s.loadLogger()

	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.loadStorage(); err != nil {
		return err
	}

	s.loadClients()
	s.loadRepos()
	s.loadDomains()

	return nil
}

func (s *srv) loadConfig(configPath string) error {
	configs, err := config.Load(configPath)
	if err != nil {
		return err
	}

	s.configs = configs
	s.ctx = xcontext.WithConfigs(s.ctx, *configs)
	return nil
}

func (s *srv) loadLogger() {
	level := logger.ParseLevel(s.configs.Log.Level)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() error {
	db, err := gorm.Open(sqlite.Open(s.configs.Cache.Database), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("cannot open cache database: %w", err)
	}

	if err := entity.MigrateTable(db); err != nil {
		return fmt.Errorf("cannot migrate cache database: %w", err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) loadStorage() error {
	var err error
	switch s.configs.Unread.Backend {
	case "file":
		s.store, err = kv.NewFileStore(s.configs.Unread.Path)
	case "redis":
		s.store, err = kv.NewRedisStore(s.ctx, s.configs.Redis.Addr)
	default:
		s.store = kv.NewMemoryStore()
	}

	if err != nil {
		return fmt.Errorf("cannot open %s store: %w", s.configs.Unread.Backend, err)
	}

	return nil
}

func (s *srv) loadClients() {
	generator := api.NewGenerator(s.configs.Workspace.Endpoints...)
	s.workspaceCaller = client.NewWorkspaceCaller(generator)

	s.ctx = xcontext.WithTokenSource(s.ctx,
		authenticator.NewStaticTokenSource(s.configs.Auth.Token))
	s.ctx = xcontext.WithRequestUser(s.ctx, entity.User{
		ID:   s.configs.Auth.UserID,
		Name: s.configs.Auth.UserName,
		Role: s.configs.Auth.Role,
	})
}

func (s *srv) loadRepos() {
	s.groupRepo = repository.NewGroupRepository()
	s.messageRepo = repository.NewMessageRepository()
}

func (s *srv) loadDomains() {
	s.tracker = domain.NewUnreadTracker(s.ctx, s.store, s.unreadKey())
	s.syncEngine = domain.NewMessageSyncEngine(s.workspaceCaller, s.messageRepo, s.tracker)
	s.membershipEditor = domain.NewMembershipEditor(s.workspaceCaller, s.groupRepo)
	s.bulkRunner = domain.NewBulkRunner(
		s.workspaceCaller, s.groupRepo, s.messageRepo, s.syncEngine, s.tracker)
	s.directoryDomain = domain.NewDirectoryDomain(
		s.workspaceCaller, s.groupRepo, s.syncEngine, s.tracker)
}

// unreadKey scopes markers to this installation and user. The install
// id is minted on first run and persisted in the marker store itself.
func (s *srv) unreadKey() string {
	installID, err := s.store.Get(s.ctx, common.InstallIDKey())
	if err != nil {
		installID = uuid.NewString()
		if err := s.store.Set(s.ctx, common.InstallIDKey(), installID); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot persist install id: %v", err)
		}
	}

	return common.UnreadStoreKey(installID, s.configs.Auth.UserID)
}
