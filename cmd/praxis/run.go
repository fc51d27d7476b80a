package main

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/praxis-ledger/praxis/common"
	"github.com/praxis-ledger/praxis/config"
	"github.com/praxis-ledger/praxis/runtime"
	"github.com/praxis-ledger/praxis/runtime/native"
	"github.com/praxis-ledger/praxis/services/timesvc"
	"github.com/praxis-ledger/praxis/storage"
)

const timeServiceID common.InstanceID = 1

func runCommand() *cobra.Command {
	var (
		configPath string
		validators int
		rounds     int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a node with the built-in time service",
		Long: "Run assembles a node from the configured storage backend, deploys " +
			"the time service and drives a set of local validators through a few " +
			"rounds of time reports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, validators, rounds)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the node configuration file")
	cmd.Flags().IntVar(&validators, "validators", 4, "number of local validators to simulate")
	cmd.Flags().IntVar(&rounds, "rounds", 3, "number of reporting rounds to run")
	return cmd
}

type validator struct {
	publicKey common.PublicKey
	key       *ecdsa.PrivateKey
}

func run(configPath string, validatorCount, rounds int) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.LogLevel()).
		With().Timestamp().Logger()

	db, err := cfg.OpenDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	validators := make([]validator, validatorCount)
	keys := make([]common.PublicKey, validatorCount)
	for i := range validators {
		key, err := ethcrypto.GenerateKey()
		if err != nil {
			return fmt.Errorf("failed to generate validator key; %w", err)
		}
		validators[i].key = key
		copy(validators[i].publicKey[:], ethcrypto.CompressPubkey(&key.PublicKey))
		keys[i] = validators[i].publicKey
	}

	nativeRuntime := native.NewRuntime()
	nativeRuntime.AddServiceFactory(timesvc.Factory{})
	dispatcher := runtime.NewDispatcher(nativeRuntime)
	dispatcher.SetLogger(log)

	spec := runtime.InstanceSpec{
		Artifact: timesvc.ArtifactID(),
		ID:       timeServiceID,
		Name:     "time",
	}
	if err := setup(db, dispatcher, spec, timesvc.Config{Validators: keys}); err != nil {
		return err
	}
	log.Info().
		Str("artifact", spec.Artifact.String()).
		Str("instance", spec.Name).
		Int("validators", validatorCount).
		Msg("node assembled")

	call := runtime.CallInfo{InstanceID: timeServiceID, MethodID: timesvc.MethodReport}
	for round := 0; round < rounds; round++ {
		fork, err := db.Fork()
		if err != nil {
			return err
		}
		now := time.Now()
		for _, v := range validators {
			tx := timesvc.TxReport{Time: now, Author: v.publicKey}
			ctx := runtime.NewExecutionContext(dispatcher, fork, runtime.CallerTransaction(v.publicKey))
			if err := dispatcher.Call(ctx, call, tx.ToBytes()); err != nil {
				fork.Release()
				return err
			}
		}
		if err := db.Merge(fork.IntoPatch()); err != nil {
			return err
		}
		log.Info().Int("round", round+1).Time("reported", now).Msg("reports committed")
		time.Sleep(time.Second)
	}

	snapshot, err := db.Snapshot()
	if err != nil {
		return err
	}
	defer snapshot.Release()
	agreed, exists, err := timesvc.NewSchema(snapshot).ConsolidatedTime()
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no consolidated time after %d rounds", rounds)
	}
	fmt.Printf("consolidated time: %s\n", agreed.Format(time.RFC3339Nano))
	return nil
}

// setup deploys and starts the time service in one atomic unit.
func setup(db storage.Database, dispatcher *runtime.Dispatcher, spec runtime.InstanceSpec, cfg timesvc.Config) error {
	fork, err := db.Fork()
	if err != nil {
		return err
	}
	if err := dispatcher.DeployArtifact(fork, spec.Artifact, nil); err != nil {
		fork.Release()
		return err
	}
	if err := dispatcher.StartService(fork, spec, cfg.ToBytes()); err != nil {
		fork.Release()
		return err
	}
	return db.Merge(fork.IntoPatch())
}
