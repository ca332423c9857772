// Package config provides configuration management for abilityctl.
//
// Configuration is loaded from several YAML sources and merged in order,
// later sources overriding earlier ones:
//
//  1. Default configuration (compiled into the binary)
//  2. User configuration (~/.config/abilityctl/config.yaml)
//  3. Project configuration (./.abilityctl/config.yaml)
//  4. The file passed with --config, if any
//
// Scalars override when set, maps merge key by key and lists replace.
//
// # Configuration Structure
//
//	logging:
//	  level: debug
//	  format: json
//
//	catalog:
//	  source: configmap        # or "file"
//	  namespace: abilities
//	  configMap: ability-catalog
//
//	providers:
//	  families:
//	    stability: chat
//	  imageRequired: [baidu]
//	  marketRoutes:
//	    - provider: kie
//	      category: audio
//	      apiType: market_text_to_audio
//
//	invoker:
//	  baseURL: http://provider-gateway:8000
//	  timeouts:
//	    comfyui: 15m
//	  credentials:
//	    tokenURL: https://auth.example.com/oauth/token
//	    clientID: abilityctl
//	    clientSecretEnv: ABILITYCTL_CLIENT_SECRET
//
//	server:
//	  port: 8090
//	  corsOrigins: ["https://console.example.com"]
//	  dapr: false
//
//	invocationLog:
//	  sinks: [log, postgres]
//	  dsnEnv: ABILITYCTL_DSN
package config
