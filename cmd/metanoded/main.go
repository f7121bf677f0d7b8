// Command metanoded wires every component (C1-C14) into one running
// process: a block creator and a VRF leader selector (constructed side by
// side; the selector does not drive the creator), a treasury engine, the BISO wallet gate served over HTTP, the httpcg cross-domain
// client, the BPI node coordinator, the bundle transaction manager, and
// the ZJL verification tier. Grounded on the teacher's main.go shape
// (gocore init, ulogger construction, prometheus registry, graceful
// shutdown on signal) without its multi-binary argv dispatch, which has
// no counterpart in this single-process design.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GlobalSushrut/metanode/biso"
	"github.com/GlobalSushrut/metanode/blockassembly"
	"github.com/GlobalSushrut/metanode/bundletx"
	"github.com/GlobalSushrut/metanode/coordinator"
	"github.com/GlobalSushrut/metanode/crypto"
	"github.com/GlobalSushrut/metanode/header"
	"github.com/GlobalSushrut/metanode/httpcg"
	"github.com/GlobalSushrut/metanode/settings"
	"github.com/GlobalSushrut/metanode/telemetry"
	"github.com/GlobalSushrut/metanode/treasury"
	"github.com/GlobalSushrut/metanode/ulogger"
	"github.com/GlobalSushrut/metanode/validatorset"
	"github.com/GlobalSushrut/metanode/vrfselect"
	"github.com/GlobalSushrut/metanode/zjl"
)

// node bundles every wired component so the HTTP handlers below can close
// over them without a parallel set of package-level globals.
type node struct {
	log            ulogger.Logger
	headerVerifier *header.HeaderVerifier
	leaderSelector *vrfselect.LeaderSelector
	blockCreator   *blockassembly.Creator
	treasuryEngine *treasury.Engine
	biso           *biso.Handlers
	httpcg         *httpcg.Client
	coordinator    *coordinator.Coordinator
	bundles        *bundletx.Manager
	minuteAnchorer *zjl.MinuteAnchorer
	gidx           *zjl.GIDXAggregator
}

func (n *node) registerRoutes(r *gin.Engine) {
	n.biso.RegisterRoutes(r)

	r.GET("/coordinator/nodes", func(c *gin.Context) {
		c.JSON(http.StatusOK, n.coordinator.GetNodesStatus())
	})

	r.POST("/bundle", func(c *gin.Context) {
		var bundle bundletx.Bundle
		if err := c.ShouldBindJSON(&bundle); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		txID, err := n.bundles.SubmitBundleTransaction(bundle)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"transaction_id": txID})
	})

	r.GET("/zjl/gidx/:jurisdiction", func(c *gin.Context) {
		c.JSON(http.StatusOK, n.gidx.Snapshot(c.Param("jurisdiction")))
	})

	r.POST("/zjl/minute-anchor/finalize", func(c *gin.Context) {
		c.JSON(http.StatusOK, n.minuteAnchorer.ForceFinalize(time.Now()))
	})

	r.POST("/httpcg/cross-domain", func(c *gin.Context) {
		var req struct {
			URL      string          `json:"url"`
			Method   string          `json:"method"`
			Body     []byte          `json:"body"`
			WalletID string          `json:"wallet_did"`
			ErbType  *httpcg.ERBType `json:"erb_type,omitempty"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		resp, err := n.httpcg.RequestCrossDomain(req.URL, req.Method, req.Body, req.WalletID, req.ErbType)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	})
}

const progname = "metanoded"

func init() {
	gocore.SetInfo(progname, "", "")
	gocore.Log(progname)
}

func main() {
	serviceName, _ := gocore.Config().Get("SERVICE_NAME", progname)
	log := ulogger.New(serviceName, "info")
	cfg := settings.NewSettings()
	metrics := telemetry.New()

	log.Infof("starting %s", progname)

	signerPriv, signerPub, err := crypto.GenerateKeypair(crypto.AlgClassicalSignature)
	if err != nil {
		log.Fatalf("failed to generate block signer keypair: %v", err)
	}

	validators := []validatorset.Validator{{PubKey: signerPub, Stake: 1}}
	vset := validatorset.NewValidatorSet(validators)
	metrics.SetActiveValidators(len(vset.Validators))

	leaderSelector := vrfselect.NewLeaderSelector(
		[]vrfselect.Candidate{{VrfPub: signerPub, Stake: 1}}, false)

	headerVerifier, err := header.NewHeaderVerifier(vset, 1024, nil, metrics)
	if err != nil {
		log.Fatalf("failed to build header verifier: %v", err)
	}

	blockCreator := blockassembly.NewCreator(blockassembly.Config{
		KWindow:                 cfg.BlockAssembly.KWindow,
		MaxTransactionsPerBlock: cfg.BlockAssembly.MaxTransactionsPerBlock,
		FeeSplit: blockassembly.FeeSplitConfig{
			LockedPct:    cfg.BlockAssembly.FeeSplitLocked,
			SpendablePct: cfg.BlockAssembly.FeeSplitSpendable,
			OwnerPct:     cfg.BlockAssembly.FeeSplitOwner,
			TreasuryPct:  cfg.BlockAssembly.FeeSplitTreasury,
		},
		MinerID:   serviceName,
		SignerKey: signerPriv,
	}, log, blockassembly.LoggingDispatcher{Log: log}, nil, metrics)

	treasuryMaintainers := treasury.NewMaintainerRegistry()
	treasuryEngine := treasury.NewEngine(treasury.Config{
		MinimumAmount:             cfg.Treasury.MinimumInflow,
		PerSourceCeiling:          cfg.Treasury.PerSourceCeiling,
		AutoDistributeMaintainers: cfg.Treasury.AutoDistributeToMaintainers,
	}, treasury.NopCoinDistributor{}, treasuryMaintainers, metrics)

	bisoStamps := biso.NewStampRegistry()
	bisoMetrics := biso.NewMetrics()
	bisoGate := biso.NewGate(bisoStamps, bisoMetrics)
	bisoHandlers := biso.NewHandlers(bisoGate)

	httpcgClient := httpcg.NewClient(nil)

	nodeCoordinator := coordinator.New(log)

	bundleManager := bundletx.NewManager(nil, bundletx.NewLedgerMesh(), bundletx.NopAuditSink{})

	minuteAnchorer := zjl.NewMinuteAnchorer(cfg.ZJL.MinQualityThreshold)
	gidx := zjl.NewGIDXAggregator(cfg.ZJL.WindowMinutes, zjl.Thresholds{
		ComplianceFloor: cfg.ZJL.ComplianceThreshold,
		IncidentCeiling: cfg.ZJL.IncidentThreshold,
	}, metrics)

	n := &node{
		log:            log,
		headerVerifier: headerVerifier,
		leaderSelector: leaderSelector,
		blockCreator:   blockCreator,
		treasuryEngine: treasuryEngine,
		biso:           bisoHandlers,
		httpcg:         httpcgClient,
		coordinator:    nodeCoordinator,
		bundles:        bundleManager,
		minuteAnchorer: minuteAnchorer,
		gidx:           gidx,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	n.registerRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Gatherer(), promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:              ":" + portOrDefault(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("http server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Infof("shutting down %s", progname)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http server shutdown error: %v", err)
	}
	if err := n.coordinator.Shutdown(); err != nil {
		log.Errorf("coordinator shutdown error: %v", err)
	}
}

func portOrDefault() string {
	port, _ := gocore.Config().Get("HTTP_PORT", "8080")
	return port
}
