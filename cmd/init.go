package cmd

var (
	configPath      string
	metricsTextfile string

	scanPath string
	dryRun   bool

	pageOutput    string
	thumbOutput   string
	extractOutput string
	exportOutput  string

	thumbWidth   int
	thumbHeight  int
	thumbQuality int

	naming         string
	exportFormat   string
	dropOddWidths  bool
	chapterNumbers string
	first          bool
	latest         bool
)

func initRootFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"specifies the path to your config directory",
	)
	rootCmd.PersistentFlags().StringVar(
		&metricsTextfile,
		"metrics-textfile",
		"",
		"write metrics to this file in the node_exporter textfile format when done",
	)
}

func initScanFlags() {
	scanCmd.Flags().StringVarP(
		&scanPath,
		"path",
		"p",
		"",
		"scan this directory instead of the configured sources",
	)
	scanCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"print what would be indexed without writing to the database",
	)
}

func initPageFlags() {
	pageCmd.Flags().StringVarP(
		&pageOutput,
		"output",
		"o",
		"-",
		"file to write the page to, - for stdout",
	)
}

func initThumbnailFlags() {
	thumbnailCmd.Flags().StringVarP(
		&thumbOutput,
		"output",
		"o",
		"-",
		"file to write the thumbnail to, - for stdout",
	)
	thumbnailCmd.Flags().IntVarP(
		&thumbWidth,
		"width",
		"W",
		0,
		"maximum thumbnail width, defaults to thumbnailWidth from the config",
	)
	thumbnailCmd.Flags().IntVarP(
		&thumbHeight,
		"height",
		"H",
		0,
		"maximum thumbnail height, defaults to thumbnailHeight from the config",
	)
	thumbnailCmd.Flags().IntVarP(
		&thumbQuality,
		"quality",
		"q",
		0,
		"JPEG quality 1-100, defaults to thumbnailQuality from the config",
	)
}

func initExtractFlags() {
	extractCmd.Flags().StringVarP(
		&extractOutput,
		"output",
		"o",
		"",
		"directory to extract into, a new temporary directory if empty",
	)
}

func initExportFlags() {
	exportCmd.Flags().StringVarP(
		&exportOutput,
		"output",
		"o",
		"",
		"specifies the directory exported chapters are written to",
	)
	exportCmd.Flags().StringVarP(
		&naming,
		"naming",
		"n",
		"",
		"specifies the naming template for exported chapters, defaults to namingTemplate from the config",
	)
	exportCmd.Flags().StringVarP(
		&exportFormat,
		"format",
		"f",
		"cbz",
		"output format: cbz or pdf",
	)
	exportCmd.Flags().BoolVar(
		&dropOddWidths,
		"drop-odd-widths",
		false,
		"leave out pages much wider or narrower than most pages (cbz only)",
	)

	exportCmd.Flags().StringVarP(
		&chapterNumbers,
		"chapters",
		"C",
		"",
		"specifies the chapter numbers you want to export, e.g. 1-3,5",
	)
	exportCmd.Flags().BoolVarP(
		&first,
		"first",
		"1",
		false,
		"export the first chapter",
	)
	exportCmd.Flags().BoolVarP(
		&latest,
		"latest",
		"L",
		false,
		"export the latest chapter",
	)

	exportCmd.MarkFlagsMutuallyExclusive("first", "chapters")
	exportCmd.MarkFlagsMutuallyExclusive("latest", "chapters")
	exportCmd.MarkFlagsMutuallyExclusive("first", "latest")

	_ = exportCmd.MarkFlagRequired("output")
}
