package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PaginasCrawled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paginas_crawled_total",
			Help: "Total de páginas rastreadas",
		},
		[]string{"empresa"},
	)

	DocumentosBaixados = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "documentos_baixados_total",
			Help: "Total de documentos baixados",
		},
		[]string{"empresa"},
	)

	ErrosDownload = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erros_download_total",
			Help: "Total de falhas de download de documentos",
		},
		[]string{"empresa"},
	)
)

func Start(port string) {
	prometheus.MustRegister(PaginasCrawled, DocumentosBaixados, ErrosDownload)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
