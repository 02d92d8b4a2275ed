package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var replacer = strings.NewReplacer(".", "_", "-", "_")

type argType interface {
	string | bool | int | time.Duration | []string
}

// envName returns the environment variable bound to a flag: the explicit
// override when one is declared, the upper-cased flag name otherwise.
func envName[T argType](cfg boundEnvVar[T]) string {
	if cfg.Env != nil {
		return *cfg.Env
	}
	return strings.ToUpper(replacer.Replace(cfg.Name))
}

// bindEnvMap registers one persistent flag per map entry and binds it to its
// environment variable, so values resolve as flag > environment > default.
// The int case is registered as a count flag (repeatable, e.g. -vvv).
func bindEnvMap[T argType](cmd *cobra.Command, m map[*T]boundEnvVar[T]) {
	flags := cmd.PersistentFlags()
	for v, cfg := range m {
		env := envName(cfg)
		desc := fmt.Sprintf("[%s] %s", env, cfg.Description)

		switch vt := any(v).(type) {
		case *string:
			def := any(*v).(string)
			if cfg.Env != nil {
				if ev, found := os.LookupEnv(*cfg.Env); found {
					def = ev
				}
			}
			if cfg.Short == nil {
				flags.StringVar(vt, cfg.Name, def, desc)
			} else {
				flags.StringVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *bool:
			def := any(*v).(bool)
			if cfg.Env != nil {
				if _, found := os.LookupEnv(*cfg.Env); found {
					def = viper.GetBool(*cfg.Env)
				}
			}
			if cfg.Short == nil {
				flags.BoolVar(vt, cfg.Name, def, desc)
			} else {
				flags.BoolVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *int:
			def := any(*v).(int)
			if cfg.Short == nil {
				flags.CountVar(vt, cfg.Name, desc)
			} else {
				flags.CountVarP(vt, cfg.Name, *cfg.Short, desc)
			}
			_ = flags.Lookup(cfg.Name).Value.Set(strconv.Itoa(def))
		case *time.Duration:
			def := any(*v).(time.Duration)
			if cfg.Env != nil {
				if _, found := os.LookupEnv(*cfg.Env); found {
					def = viper.GetDuration(*cfg.Env)
				}
			}
			if cfg.Short == nil {
				flags.DurationVar(vt, cfg.Name, def, desc)
			} else {
				flags.DurationVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *[]string:
			def := any(*v).([]string)
			if cfg.Env != nil {
				if _, found := os.LookupEnv(*cfg.Env); found {
					def = viper.GetStringSlice(*cfg.Env)
				}
			}
			if cfg.Short == nil {
				flags.StringSliceVar(vt, cfg.Name, def, desc)
			} else {
				flags.StringSliceVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		default:
			log.Panicf("unhandled flag type %T for --%s", vt, cfg.Name)
		}

		_ = viper.BindPFlag(cfg.Name, flags.Lookup(cfg.Name))
		_ = viper.BindEnv(cfg.Name, env)

		if cfg.Hidden {
			_ = flags.MarkHidden(cfg.Name)
		}
	}
}
