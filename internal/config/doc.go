// Package config provides configuration parsing for shadow.
//
// The configuration is stored in shadow.json. Every field is optional;
// missing values fall back to the defaults returned by New.
//
// # Configuration File Structure
//
//	{
//	  "root": {
//	    "id": 1,
//	    "width": 375,
//	    "height": 812
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "inspector": {
//	    "addr": "127.0.0.1:7070",
//	    "history": 64
//	  },
//	  "metrics": {
//	    "namespace": "shadow"
//	  },
//	  "tracing": {
//	    "tracerName": "shadow"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.Log.Logger(os.Stderr)
package config
