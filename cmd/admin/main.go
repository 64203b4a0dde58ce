package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/config"
	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/store"
)

func main() {
	var (
		username = flag.String("username", "", "账号用户名（必填）")
		role     = flag.String("role", auth.RoleAdmin, "账号角色：admin 或 recruiter")
		name     = flag.String("name", "", "显示名称（默认与用户名相同）")
		email    = flag.String("email", "", "邮箱（默认 <username>@hkexpatjobs.local）")
		driver   = flag.String("db-driver", "", "数据库驱动（可选，默认读 DATABASE_DRIVER）")
		dbHost   = flag.String("db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）")
	)
	flag.Parse()

	u := strings.TrimSpace(*username)
	if u == "" {
		log.Fatal("missing required flag: --username")
	}
	r := strings.ToLower(strings.TrimSpace(*role))
	if r != auth.RoleAdmin && r != auth.RoleRecruiter {
		log.Fatalf("unsupported role %q (admin|recruiter)", *role)
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}
	if v := strings.TrimSpace(*driver); v != "" {
		dbCfg.Driver = v
	}
	if v := strings.TrimSpace(*dbHost); v != "" {
		dbCfg.Host = v
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	users := store.NewUserStore(db)
	switch _, err := users.FindByUsername(ctx, u); {
	case err == nil:
		log.Fatalf("user %q already exists", u)
	case errors.Is(err, store.ErrNotFound):
	default:
		log.Fatalf("query user: %v", err)
	}

	password, err := generateRandomPassword(18)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	displayName := strings.TrimSpace(*name)
	if displayName == "" {
		displayName = u
	}
	mail := strings.TrimSpace(*email)
	if mail == "" {
		mail = u + "@hkexpatjobs.local"
	}

	user := database.User{
		Username:     u,
		PasswordHash: hashed,
		Role:         r,
		Name:         displayName,
		Email:        mail,
	}
	if err := users.Create(ctx, &user); err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("已创建 %s 账号：\n", r)
	fmt.Printf("用户名: %s\n", u)
	fmt.Printf("初始密码: %s\n", password)
	fmt.Printf("提示：该密码仅显示一次，请妥善保存。\n")
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 18
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
