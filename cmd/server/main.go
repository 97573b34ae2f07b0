package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"BlockJack/config"
	"BlockJack/internal/api"
	"BlockJack/internal/discovery"
	"BlockJack/internal/game/manager"
	"BlockJack/internal/scoreboard"
	"BlockJack/internal/server"
	"BlockJack/internal/storage"
	"BlockJack/internal/utils"
	"BlockJack/internal/websocket"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.Load(os.Getenv("BJ_CONFIG")); err != nil {
		utils.Error.Fatalf("Config load failed: %v", err)
	}
	logger := utils.Init(config.C.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//-------------------------------------------------------
	// 1. 积分榜存储
	//-------------------------------------------------------
	repo, closeStore, err := openScoreboard(ctx)
	if err != nil {
		logger.Fatal("scoreboard storage init failed", "driver", config.C.Storage.Driver, "err", err)
	}
	defer closeStore()
	scores := scoreboard.NewService(repo)

	//-------------------------------------------------------
	// 2. 观战 Hub（必须在 GameManager 之前启动）
	//-------------------------------------------------------
	hub := websocket.NewHub(logger.WithPrefix("hub"))
	go hub.Run()
	defer hub.Close()

	//-------------------------------------------------------
	// 3. GameManager：每局结算写积分榜并推送观战端
	//-------------------------------------------------------
	mgr := manager.NewGameManager(logger)
	mgr.OnRoundSettled(scores.RoundSettled)
	mgr.OnRoundSettled(hub.RoundSettled)

	//-------------------------------------------------------
	// 4. 管理端 HTTP
	//-------------------------------------------------------
	gin.SetMode(gin.ReleaseMode)
	httpSrv := &http.Server{
		Addr:    config.C.HTTP.Addr,
		Handler: api.NewRouter(api.NewHandler(mgr, scores), hub),
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "err", err)
		}
	}()

	//-------------------------------------------------------
	// 5. TCP session 服务器
	//-------------------------------------------------------
	srv := server.New(config.C.Server.Addr, mgr, logger)
	if err := srv.Listen(); err != nil {
		logger.Fatal("tcp listen failed", "addr", config.C.Server.Addr, "err", err)
	}
	logger.Info("Server started, listening on IP address "+localIP(), "port", srv.Port(), "http", config.C.HTTP.Addr)

	//-------------------------------------------------------
	// 6. UDP Offer 广播
	//-------------------------------------------------------
	ann, err := discovery.NewAnnouncer(config.C.Server.Name, srv.Port(),
		discovery.WithInterval(config.C.Server.OfferInterval),
		discovery.WithTarget(net.JoinHostPort(config.C.Server.BroadcastAddr, strconv.Itoa(config.C.Server.OfferPort))),
		discovery.WithLogger(logger.WithPrefix("offer")),
	)
	if err != nil {
		logger.Fatal("announcer init failed", "name", config.C.Server.Name, "err", err)
	}
	go func() {
		if err := ann.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("announcer stopped", "err", err)
		}
	}()

	//-------------------------------------------------------
	// 7. 阻塞直到 SIGINT/SIGTERM
	//-------------------------------------------------------
	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("tcp server stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	logger.Info("bye")
}

// openScoreboard 按 storage.driver 选择实现，返回的 close 函数总是可调用
func openScoreboard(ctx context.Context) (scoreboard.Repo, func(), error) {
	switch config.C.Storage.Driver {
	case "redis":
		rdb, err := storage.OpenRedis(ctx, config.C.Redis.Addr, config.C.Redis.Password, config.C.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return scoreboard.NewRedisRepo(rdb), func() { _ = rdb.Close() }, nil

	case "postgres":
		db, err := storage.OpenPostgres(config.C.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		repo, err := scoreboard.NewPostgresRepo(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil

	default:
		return scoreboard.NewMemoryRepo(), func() {}, nil
	}
}

// localIP 本机出口 IP；UDP Dial 不会真的发包
func localIP() string {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
