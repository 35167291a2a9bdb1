package config

import (
	"errors"
	"fmt"
)

// Validate ensures required fields are present and thresholds are coherent.
func Validate(cfg Config) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Horizon.FinalTimestamp <= 0 {
		return errors.New("horizon.finalTimestamp must be > 0")
	}
	if cfg.Horizon.TickInterval <= 0 {
		return errors.New("horizon.tickInterval must be > 0")
	}
	if cfg.Horizon.LiquidationWindow <= 0 {
		return errors.New("horizon.liquidationWindow must be > 0")
	}
	if cfg.Horizon.MarketOutThreshold < 0 || cfg.Horizon.MarketOutThreshold > cfg.Horizon.LiquidationWindow {
		return errors.New("horizon.marketOutThreshold must be within [0, liquidationWindow]")
	}
	if len(cfg.Instruments) == 0 {
		return errors.New("instruments config is required")
	}
	for name, ic := range cfg.Instruments {
		if err := validateInstrument(name, ic); err != nil {
			return err
		}
	}
	return nil
}

func validateInstrument(name string, ic InstrumentConfig) error {
	switch ic.FairValue {
	case FairValueFixed:
		if ic.FixedFairValue <= 0 {
			return fmt.Errorf("instrument %s fixedFairValue must be > 0", name)
		}
		if ic.TakeSpread < 0 {
			return fmt.Errorf("instrument %s takeSpread must be >= 0", name)
		}
	case FairValueRolling:
		if ic.WindowSize <= 0 {
			return fmt.Errorf("instrument %s windowSize must be > 0", name)
		}
		if ic.MinObservations < 2 {
			return fmt.Errorf("instrument %s minObservations must be >= 2 (sample stddev)", name)
		}
		if ic.MinObservations > ic.WindowSize {
			return fmt.Errorf("instrument %s minObservations must be <= windowSize", name)
		}
		if ic.TakeVolScale <= 0 {
			return fmt.Errorf("instrument %s takeVolScale must be > 0", name)
		}
	default:
		return fmt.Errorf("instrument %s fairValue must be %q or %q", name, FairValueFixed, FairValueRolling)
	}
	if ic.ClearSpread < 0 {
		return fmt.Errorf("instrument %s clearSpread must be >= 0", name)
	}
	if ic.BaseSpread <= 0 {
		return fmt.Errorf("instrument %s baseSpread must be > 0", name)
	}
	if ic.IgnoreSpread < 0 {
		return fmt.Errorf("instrument %s ignoreSpread must be >= 0", name)
	}
	if ic.MatchSpread < 0 {
		return fmt.Errorf("instrument %s matchSpread must be >= 0", name)
	}
	if ic.PositionLimit <= 0 {
		return fmt.Errorf("instrument %s positionLimit must be > 0", name)
	}
	if ic.InventorySoftLimit < 0 || ic.InventorySoftLimit > ic.PositionLimit {
		return fmt.Errorf("instrument %s inventorySoftLimit must be within [0, positionLimit]", name)
	}
	return nil
}
