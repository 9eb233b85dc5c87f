// Package daemon runs the long-lived process that exclusively owns the I2C
// handle to the UPS HAT and serves telemetry and control over an HTTP API on
// a unix socket.
package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hat-tools/upshat/pkg/config"
	"github.com/hat-tools/upshat/pkg/i2c"
	"github.com/hat-tools/upshat/pkg/ups"
)

var (
	upsConn *ups.UPS
	conf    config.Config
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/battery", getBatteryState)
	router.GET("/power", getPowerState)
	router.GET("/cells", getCellVoltage)
	router.GET("/vbus", getVBus)
	router.GET("/communication", getCommunicationState)
	router.GET("/revision", getSoftwareRevision)
	router.GET("/battery-low", getBatteryLow)
	router.GET("/power-off-pending", getPowerOffPending)
	router.PUT("/power-off", putPowerOff)
	router.GET("/version", getVersion)

	return router
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	router := setupRoutes()

	fileConf, err := config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	conf = fileConf
	logrus.WithFields(fileConf.LogrusFields()).Infof("config loaded")

	// Receive SIGHUP to reload config. Bus location and core options are
	// fixed at startup; only watch-loop tuning picks up the new values.
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			if err := conf.Load(); err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.Infof("config reloaded")
		}
	}()

	srv := &http.Server{
		Handler: router,
	}

	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		if err := os.Chmod(unixSocketPath, 0777); err != nil {
			logrus.Fatal(err)
		}
	}

	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Open the bus. The UPS facade owns the handle from here on.
	bus, err := i2c.Open(conf.I2CDevicePath())
	if err != nil {
		logrus.Fatalf("failed to open i2c bus: %v", err)
	}
	upsConn = ups.New(tracingTransport{bus}, ups.Options{
		Address:                       conf.I2CAddress(),
		LowVoltageThresholdMillivolts: uint16(conf.LowVoltageThresholdMillivolts()),
		MaxReadAttempts:               conf.MaxReadAttempts(),
		DegradedReadAttempts:          conf.DegradedReadAttempts(),
		LostThreshold:                 conf.LostThreshold(),
	})

	loopCtx, cancelLoop := context.WithCancel(context.Background())
	go func() {
		logrus.Debugln("watch loop starts")
		watchLoop(loopCtx)
	}()

	// Handle common process-killing signals, so we can gracefully shut down.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	cancelLoop()

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("closing i2c bus")
	if err := upsConn.Close(); err != nil {
		logrus.Errorf("failed to close i2c bus: %v", err)
	}

	logrus.Info("exiting")
	return nil
}
