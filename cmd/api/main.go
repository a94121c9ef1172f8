package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/planta-aurora/backoffice/backend/internal/config"
	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/handler"
	"github.com/planta-aurora/backoffice/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * crear logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * cargar configuración
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("no se pudo cargar la configuración", "error", err)
		return
	}

	/**********************************************
	 * conectar a la base de datos
	 **********************************************/
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

	/**********************************************
	 * crear repository
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * asegurar el administrador inicial
	 **********************************************/
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("no se pudo generar el hash de la contraseña del administrador inicial", "error", err)
		return
	}
	initialAdmin := &domain.User{
		Username:     cfg.InitialAdmin.Username,
		PasswordHash: string(passwordHash),
		FullName:     cfg.InitialAdmin.FullName,
		Email:        cfg.InitialAdmin.Email,
		Role:         domain.RoleAdmin,
	}
	if err := repo.CreateUser(context.Background(), initialAdmin); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "users_username_key":
				// el administrador inicial ya existe, no hay nada que hacer
			default:
				logger.Error("no se pudo crear el administrador inicial", "error", err)
				return
			}
		default:
			logger.Error("no se pudo crear el administrador inicial", "error", err)
			return
		}
	}

	/**********************************************
	 * conectar a rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("no se pudo conectar a rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("no se pudo abrir el canal", "error", err)
		return
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		"email_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("no se pudo declarar la cola", "error", err)
		return
	}

	/**********************************************
	 * conectar a redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	/**********************************************
	 * crear handler
	 **********************************************/
	h, err := handler.NewHandler(cfg, repo, ch, rdb)
	if err != nil {
		logger.Error("no se pudo crear el handler", "error", err)
		return
	}
	h.RegisterRoutes()

	// bitácora de auditoría de la dotación
	h.Notifier().Register(func(ev domain.WorkerEvent) {
		attrs := []any{"kind", string(ev.Kind), "changedBy", ev.ChangedBy}
		if ev.Worker != nil {
			attrs = append(attrs, "rut", ev.Worker.RUT)
		}
		if len(ev.Changed) > 0 {
			attrs = append(attrs, "changed", ev.Changed)
		}
		logger.Info("evento de dotación", attrs...)
	})

	/**********************************************
	 * programar tareas periódicas
	 **********************************************/
	scheduler := cron.New()

	// análisis automático del día anterior, una vez cerrado el turno de noche
	if _, err := scheduler.AddFunc(cfg.Analysis.CronSpec, func() {
		yesterday := time.Now().AddDate(0, 0, -1)
		result, err := h.Analyzer().AnalyzeDay(context.Background(), yesterday)
		if err != nil {
			logger.Error("falló el análisis programado", "date", yesterday.Format("2006-01-02"), "error", err)
			return
		}
		logger.Info("análisis programado completado", "date", yesterday.Format("2006-01-02"), "anomalies", result.Anomalies)
		h.Notifier().Notify(domain.WorkerEvent{Kind: domain.AnalysisCompleted})
	}); err != nil {
		logger.Error("no se pudo programar el análisis diario", "error", err)
		return
	}

	// resumen semanal por correo, los lunes en la mañana
	if _, err := scheduler.AddFunc("0 7 * * 1", func() {
		to := time.Now().Truncate(24 * time.Hour)
		from := to.AddDate(0, 0, -7)

		byKind, err := repo.SummarizeAnomaliesByKind(context.Background(), from, to)
		if err != nil {
			logger.Error("no se pudo armar el resumen semanal", "error", err)
			return
		}
		byArea, err := repo.SummarizeAnomaliesByArea(context.Background(), from, to)
		if err != nil {
			logger.Error("no se pudo armar el resumen semanal", "error", err)
			return
		}

		body, err := json.Marshal(domain.MailMessage{
			Type: "weekly_report",
			To:   cfg.InitialAdmin.Email,
			Data: domain.WeeklyReportMailData{
				WeekStart: from.Format("2006-01-02"),
				ByKind:    byKind,
				ByArea:    byArea,
			},
		})
		if err != nil {
			logger.Error("no se pudo serializar el resumen semanal", "error", err)
			return
		}

		pubCtx, pubCancel := context.WithTimeout(context.Background(), time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
		defer pubCancel()

		if err := ch.PublishWithContext(pubCtx, "", "email_queue", true, false, amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		}); err != nil {
			logger.Error("no se pudo encolar el resumen semanal", "error", err)
		}
	}); err != nil {
		logger.Error("no se pudo programar el resumen semanal", "error", err)
		return
	}

	scheduler.Start()
	defer scheduler.Stop()

	/**********************************************
	 * levantar el servidor HTTP
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("iniciando el servidor...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("no se pudo iniciar el servidor", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("apagando el servidor...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("falló el apagado del servidor", slog.String("error", err.Error()))
	}
	logger.Info("servidor apagado correctamente")
}
