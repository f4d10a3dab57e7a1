package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"secondhand/internal/config"
	"secondhand/internal/db"
	"secondhand/internal/errors"
	"secondhand/internal/handler"
	"secondhand/internal/logger"
	"secondhand/internal/model"
	"secondhand/internal/repository"
	"secondhand/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := logger.Init(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "secondhand-seed",
	})
	if err != nil {
		panic("logger init: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting seed")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.Options{LogLevel: cfg.DBLogLevel}, log)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	if err := db.Migrate(gormDB, false, log); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	ctx := logger.WithContext(context.Background(), log)
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	admin, created, err := seedAdmin(ctx, userRepo, cfg.SeedAdminUsername, cfg.SeedAdminPassword)
	if err != nil {
		log.Fatal("seed admin", zap.Error(err))
	}
	log.Info("admin ready", zap.String("username", admin.Username), zap.Bool("created", created))

	if cfg.SeedProductsFile == "" {
		log.Info("SEED_PRODUCTS_FILE not set, skipping products")
		return
	}
	raw, err := loadProducts(cfg.SeedProductsFile)
	if err != nil {
		log.Fatal("load products", zap.String("source", cfg.SeedProductsFile), zap.Error(err))
	}
	products := service.NewProductService(productRepo, userRepo, nil, 0, nil)
	seeded, skipped, err := seedProducts(ctx, products, productRepo, admin.ID, raw)
	if err != nil {
		log.Fatal("seed products", zap.Error(err))
	}
	log.Info("seed completed", zap.Int("products_created", seeded), zap.Int("products_skipped", skipped))
}

// seedAdmin creates the administrator account or promotes an existing user
// with the same username.
func seedAdmin(ctx context.Context, repo repository.UserRepository, username, password string) (*model.User, bool, error) {
	existing, err := repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find admin %q: %w", username, err)
	}
	if existing != nil {
		if !existing.IsAdmin || !existing.Status {
			existing.IsAdmin = true
			existing.Status = true
			if err := repo.Update(ctx, existing); err != nil {
				return nil, false, fmt.Errorf("promote admin %q: %w", username, err)
			}
		}
		return existing, false, nil
	}

	if password == "" {
		return nil, false, fmt.Errorf("SEED_ADMIN_PASSWORD is required to create %q", username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	admin := &model.User{Username: username, PasswordHash: string(hash), IsAdmin: true, Status: true}
	if err := repo.Create(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("create admin %q: %w", username, err)
	}
	return admin, true, nil
}

// loadProducts reads a JSON array of listings from a file path or an
// http(s) URL.
func loadProducts(source string) ([]map[string]interface{}, error) {
	var body []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("source returned status code: %d", resp.StatusCode)
		}
		if body, err = io.ReadAll(resp.Body); err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
	} else {
		var err error
		if body, err = os.ReadFile(source); err != nil {
			return nil, err
		}
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return items, nil
}

// seedProducts lists every payload under its sellerId (the admin when
// absent). Listings whose name the seller already uses are skipped.
func seedProducts(
	ctx context.Context,
	products service.ProductService,
	repo repository.ProductRepository,
	defaultSeller uint,
	raw []map[string]interface{},
) (seeded, skipped int, err error) {
	log := logger.FromContext(ctx)
	known := map[uint]map[string]bool{}

	for i, item := range raw {
		in, err := handler.DecodeProductPayload(item)
		if err != nil {
			log.Warn("skipping invalid product", zap.Int("index", i), zap.Error(err))
			skipped++
			continue
		}
		seller := in.SellerID
		if seller == 0 {
			seller = defaultSeller
		}

		names, ok := known[seller]
		if !ok {
			existing, _, err := repo.List(ctx, repository.ProductFilter{SellerID: seller}, 0, 0)
			if err != nil {
				return seeded, skipped, fmt.Errorf("list products of seller %d: %w", seller, err)
			}
			names = make(map[string]bool, len(existing))
			for _, p := range existing {
				names[p.Name] = true
			}
			known[seller] = names
		}
		if names[strings.TrimSpace(in.Name)] {
			skipped++
			continue
		}

		product, err := products.Create(ctx, seller, in)
		if err != nil {
			if errors.KindOf(err) == errors.KindValidation {
				log.Warn("skipping invalid product", zap.Int("index", i), zap.Error(err))
				skipped++
				continue
			}
			return seeded, skipped, fmt.Errorf("create product %q: %w", in.Name, err)
		}
		names[product.Name] = true
		seeded++
	}
	return seeded, skipped, nil
}
