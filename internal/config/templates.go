package config

// DefaultConfigTemplate is the config file written by `droidcfg config init`.
const DefaultConfigTemplate = `# droidcfg configuration
#
# Settings resolve as: flag > environment variable > this file > built-in default.

# Profile used when a command is given none (env: DROIDCFG_PROFILE).
defaultProfile: droidcfg.yaml

# Flutter project root that flutter.versionCode and flutter.versionName are
# read from. Defaults to the profile's flutter.source (env: DROIDCFG_PROJECT).
# project: ../..

# Treat validation warnings as errors (env: DROIDCFG_STRICT, flag: --strict).
strict: false

store:
  # targetSdk below which validate warns (env: DROIDCFG_STORE_MIN_TARGET_SDK).
  minTargetSdk: 34

log:
  # Show timestamps in log output (env: DROIDCFG_LOG_TIMESTAMPS, flag: --timestamps).
  timestamps: true
`
