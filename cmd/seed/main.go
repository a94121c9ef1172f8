package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/config"
	"github.com/planta-aurora/backoffice/backend/internal/repository"
	"github.com/planta-aurora/backoffice/backend/internal/seed"
	"github.com/planta-aurora/backoffice/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operación a ejecutar (1: usuarios aleatorios, 2: colaboradores aleatorios, 3: vehículos aleatorios, 4: conductores aleatorios, 5: recorridos aleatorios, 6: datos reales de la planta)")
	flag.IntVar(&n, "n", 5, "cantidad de registros a insertar")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// leer configuración
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("no se pudo leer la configuración", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// crear el pool de conexiones
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("no se pudo crear el pool de conexiones", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open no conecta de inmediato, hay que hacer ping explícito
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("no se pudo conectar a la base de datos", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no se indicó ninguna operación")
	case 1:
		if n <= 0 {
			slog.Error("ingrese una cantidad válida de usuarios")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("no se pudo generar el usuario", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(context.Background(), user); err != nil {
				slog.Error("no se pudo insertar el usuario", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("usuarios insertados", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("ingrese una cantidad válida de colaboradores")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			worker := utils.GenerateRandomWorker()
			if err := repo.CreateWorker(context.Background(), worker); err != nil {
				slog.Error("no se pudo insertar el colaborador", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("colaboradores insertados", slog.Int("count", n-cnt))
	case 3:
		if n <= 0 {
			slog.Error("ingrese una cantidad válida de vehículos")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			vehicle := utils.GenerateRandomVehicle()
			if err := repo.CreateVehicle(context.Background(), vehicle); err != nil {
				slog.Error("no se pudo insertar el vehículo", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("vehículos insertados", slog.Int("count", n-cnt))
	case 4:
		if n <= 0 {
			slog.Error("ingrese una cantidad válida de conductores")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			driver := utils.GenerateRandomDriver()
			if err := repo.CreateDriver(context.Background(), driver); err != nil {
				slog.Error("no se pudo insertar el conductor", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("conductores insertados", slog.Int("count", n-cnt))
	case 5:
		if n <= 0 {
			slog.Error("ingrese una cantidad válida de recorridos")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			route := utils.GenerateRandomRoute()
			if err := repo.CreateRoute(context.Background(), route); err != nil {
				slog.Error("no se pudo insertar el recorrido", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("recorridos insertados", slog.Int("count", n-cnt))
	case 6:
		seed.SeedRealData(repo)
	default:
		slog.Error("la operación indicada no existe")
	}
}
