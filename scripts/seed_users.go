package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/adapters/event"
	"github.com/khoahotran/volc-friends/adapters/persistence"
	profileUC "github.com/khoahotran/volc-friends/internal/application/usecase/profile"
	"github.com/khoahotran/volc-friends/internal/config"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/auth"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

var (
	genders    = []user.Gender{user.GenderFemale, user.GenderMale, user.GenderOther}
	educations = []user.Education{user.EducationHighSchool, user.EducationBachelor, user.EducationMaster}
)

func main() {
	count := flag.Int("n", 20, "number of demo users")
	password := flag.String("password", "demo1234", "password for every demo user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}
	log := logger.NewZapLogger(cfg.App.Env)
	defer log.Sync()

	ctx := context.Background()
	pool, err := persistence.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal("cannot connect DB", err)
	}
	defer pool.Close()

	if err := persistence.RunMigrations(cfg.DB.DSN, cfg.DB.MigrationsDir, log); err != nil {
		log.Fatal("cannot run migrations", err)
	}

	repo := persistence.NewPostgresUserRepo(pool, log, cfg.DB.QueryTimeout)
	register := profileUC.NewRegisterUseCase(repo, auth.BcryptHasher{}, nil, event.NopPublisher{}, log)

	created := 0
	for i := 1; i <= *count; i++ {
		age := 18 + i%30
		height := 150 + (i*7)%50
		edu := educations[i%len(educations)]
		agePrivacy := user.PrivacyPublic
		if i%4 == 0 {
			agePrivacy = user.PrivacyPrivate
		}

		_, err := register.Execute(ctx, profileUC.RegisterInput{Registration: user.Registration{
			Username: fmt.Sprintf("demo%03d", i),
			Password: *password,
			ProfileFields: user.ProfileFields{
				Nickname:    fmt.Sprintf("Demo %d", i),
				Gender:      genders[i%len(genders)],
				Age:         &age,
				AgePrivacy:  agePrivacy,
				Height:      &height,
				Education:   &edu,
				Avatar:      fmt.Sprintf("https://picsum.photos/seed/demo%d/200", i),
				Description: "Seeded demo account",
				IsPublic:    i%5 != 0,
			},
		}})
		if err != nil {
			if errors.Is(err, apperror.ErrConflict) {
				continue
			}
			log.Fatal("cannot add user", err, zap.Int("index", i))
		}
		created++
	}

	log.Info("seeded demo users", zap.Int("created", created), zap.Int("requested", *count))
}
