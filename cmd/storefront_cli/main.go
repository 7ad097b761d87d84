package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	cartrepo "github.com/Manubolla/Dummyshop/internal/cart/repository"
	cartservice "github.com/Manubolla/Dummyshop/internal/cart/service"
	catalogrepo "github.com/Manubolla/Dummyshop/internal/catalog/repository"
	catalogservice "github.com/Manubolla/Dummyshop/internal/catalog/service"
	favoritesrepo "github.com/Manubolla/Dummyshop/internal/favorites/repository"
	favoritesservice "github.com/Manubolla/Dummyshop/internal/favorites/service"
	listing "github.com/Manubolla/Dummyshop/internal/listing/domain"
	listingservice "github.com/Manubolla/Dummyshop/internal/listing/service"
	notification "github.com/Manubolla/Dummyshop/internal/notification/domain"
	notificationservice "github.com/Manubolla/Dummyshop/internal/notification/service"
	"github.com/Manubolla/Dummyshop/internal/platform/config"
	"github.com/Manubolla/Dummyshop/internal/platform/kvstore"
	"github.com/Manubolla/Dummyshop/internal/platform/logger"
)

func main() {
	storageCfg := config.LoadStorageConfig()
	catalogCfg := config.LoadCatalogConfig()
	listingCfg := config.LoadListingConfig()
	notifyCfg := config.LoadNotificationConfig()

	flag.StringVar(&storageCfg.Driver, "storage", storageCfg.Driver, "state storage driver: memory, sqlite, pgx or postgres")
	flag.StringVar(&storageCfg.DSN, "dsn", storageCfg.DSN, "state storage DSN")
	logLevel := flag.String("log-level", config.GetEnv("LOG_LEVEL", "warn"), "log level")
	flag.Parse()
	logger.SetOutput(os.Stderr, *logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, storageCfg, catalogCfg, listingCfg, notifyCfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, storageCfg config.StorageConfig, catalogCfg config.CatalogConfig, listingCfg config.ListingConfig, notifyCfg config.NotificationConfig) error {
	store, closeStore, err := kvstore.Open(ctx, storageCfg.Driver, storageCfg.DSN)
	if err != nil {
		return fmt.Errorf("open state storage: %w", err)
	}
	defer closeStore()

	scheduler := notificationservice.NewScheduler(notifyCfg.CheckoutDelay, notifyCfg.DispatchSpec, nil)
	catalogService := catalogservice.NewCatalogService(
		catalogrepo.NewHTTPProductRepository(catalogCfg.BaseURL, catalogCfg.PageLimit, catalogCfg.Timeout), nil)

	cartService, err := cartservice.NewCartService(ctx, cartrepo.NewKVStateRepository(store), nil, scheduler)
	if err != nil {
		return err
	}
	favoritesService, err := favoritesservice.NewFavoritesService(ctx, favoritesrepo.NewKVStateRepository(store), nil)
	if err != nil {
		return err
	}

	initial := listing.DefaultQueryState()
	initial.SortKey = favoritesService.SortPreference()
	initial.SortDirection = initial.SortKey.DefaultDirection()
	session := listingservice.NewSession(catalogService, listingCfg.SearchDebounce, initial)
	defer session.Close()

	sh := &shell{session: session, catalog: catalogService, cart: cartService, favorites: favoritesService, out: os.Stdout}
	session.OnChange(func(snap listingservice.Snapshot) {
		if snap.State == listingservice.StateLoaded {
			sh.printf("\n[%d products match]\n", len(snap.Products))
		}
	})
	scheduler.OnDeliver(func(n notification.Notification) {
		sh.printf("\n[notification] %s: %s\n", n.Title, n.Body)
	})
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	sh.printf("Dummyshop. Loading catalog from %s ...\n", catalogCfg.BaseURL)
	if err := session.Load(ctx); err != nil {
		sh.printf("catalog unavailable: %v (try reload)\n", err)
	}
	sh.printf("%s\n", help)
	return sh.run(ctx, os.Stdin)
}
