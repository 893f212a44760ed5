// This binary provides an HTTP server that builds copy-number views.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/genomeview/cnview/cnview-server/views"
	"github.com/genomeview/cnview/plot/svg"
	"github.com/genomeview/cnview/view"
)

var (
	port = flag.Int("port", 8080, "HTTP service port")

	secure    = flag.Bool("secure", false, "serve in HTTPS-only mode")
	httpsCert = flag.String("https_cert", "", "HTTPS certificate file")
	httpsKey  = flag.String("https_key", "", "HTTPS key file")

	width = flag.Int("width", 0, "rendered graphic width in pixels (0 uses the engine default)")
)

func main() {
	flag.Parse()

	if *secure && (*httpsCert == "" || *httpsKey == "") {
		log.Fatalf("You must specify both -https_cert and -https_key in secure mode.")
	}

	builder := &view.Builder{Engine: &svg.Engine{Width: *width}}

	router := gin.Default()
	router.POST("/views", views.NewViewsHandler(builder))
	router.GET("/genomes", views.NewGenomesHandler())

	address := fmt.Sprintf(":%d", *port)
	if *secure {
		if err := router.RunTLS(address, *httpsCert, *httpsKey); err != nil {
			log.Fatalf("HTTPS server returned an error: %v", err)
		}
	} else {
		if err := router.Run(address); err != nil {
			log.Fatalf("HTTP server returned an error: %v", err)
		}
	}
}
