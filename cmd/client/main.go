// Команда client консольный клиент заказа еды. Корзина и заказы
// хранятся локально и переживают недоступность сервера: оформление
// работает офлайн, синхронизация выполняется по возможности.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/mkozyrev/food-ordering/internal/cache"
	"github.com/mkozyrev/food-ordering/internal/client/api"
	"github.com/mkozyrev/food-ordering/internal/client/localstore"
	"github.com/mkozyrev/food-ordering/internal/client/orders"
	"github.com/mkozyrev/food-ordering/internal/config"
	"github.com/mkozyrev/food-ordering/internal/models"
)

const sessionKey = "client:session"

// session сохранённая авторизация устройства.
type session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "адрес сервера")
	redisAddr := flag.String("redis", "", "адрес Redis для локального хранилища, пустой - в памяти")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := newStore(ctx, *redisAddr)
	if err != nil {
		fail("хранилище недоступно: %v", err)
	}

	client := api.New(*serverURL)
	if sess := loadSession(store); sess != nil {
		client.SetToken(sess.Token)
	}

	manager := orders.New(store, client, logger)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "menu":
		runMenu(ctx, client)
	case "cart":
		runCart(manager)
	case "add":
		runAdd(ctx, client, manager, args[1:])
	case "qty":
		runQuantity(manager, args[1:])
	case "clear":
		if err := manager.ClearCart(); err != nil {
			fail("%v", err)
		}
	case "order":
		runOrder(ctx, manager, store, args[1:])
	case "orders":
		runOrders(manager)
	case "status":
		runStatus(ctx, manager, args[1:])
	case "cancel":
		runCancel(ctx, manager, args[1:])
	case "login":
		runLogin(ctx, client, args[1:])
	case "verify":
		runVerify(ctx, client, store, args[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func newStore(ctx context.Context, redisAddr string) (localstore.Store, error) {
	if redisAddr == "" {
		return localstore.NewMemory(), nil
	}
	kv, err := cache.InitServer(ctx, config.RedisConnection{
		AddressRedis: redisAddr,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		TimeoutRedis: 3 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return localstore.NewPersistent(kv), nil
}

func loadSession(store localstore.Store) *session {
	var sess session
	found, err := store.Get(sessionKey, &sess)
	if err != nil || !found {
		return nil
	}
	return &sess
}

func runMenu(ctx context.Context, client *api.Client) {
	dishes, categories, err := client.Menu(ctx)
	if err != nil {
		fail("%v", err)
	}
	for _, cat := range categories {
		if !cat.Visible {
			continue
		}
		fmt.Printf("== %s ==\n", cat.Name)
		for _, d := range dishes {
			if d.Category != cat.Name || !d.Available {
				continue
			}
			fmt.Printf("  [%d] %s - %.2f\n", d.ID, d.Name, d.Price)
		}
	}
}

func runCart(manager *orders.Manager) {
	cart, err := manager.Cart()
	if err != nil {
		fail("%v", err)
	}
	if len(cart.Items) == 0 {
		fmt.Println("корзина пуста")
		return
	}
	for _, item := range cart.Items {
		fmt.Printf("  [%d] %s x%d - %.2f\n", item.DishID, item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}
	fmt.Printf("итого: %.2f\n", cart.Total())
}

func runAdd(ctx context.Context, client *api.Client, manager *orders.Manager, args []string) {
	if len(args) < 1 {
		fail("использование: add <dish_id> [количество]")
	}
	dishID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fail("неверный id блюда: %s", args[0])
	}
	quantity := 1
	if len(args) > 1 {
		quantity, err = strconv.Atoi(args[1])
		if err != nil {
			fail("неверное количество: %s", args[1])
		}
	}

	dishes, _, err := client.Menu(ctx)
	if err != nil {
		fail("%v", err)
	}
	for _, d := range dishes {
		if d.ID != dishID {
			continue
		}
		cart, err := manager.AddToCart(models.CartItem{
			DishID:   d.ID,
			Name:     d.Name,
			Price:    d.Price,
			Quantity: quantity,
		})
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("добавлено: %s x%d, итого %.2f\n", d.Name, quantity, cart.Total())
		return
	}
	fail("блюдо %d не найдено в меню", dishID)
}

func runQuantity(manager *orders.Manager, args []string) {
	if len(args) < 2 {
		fail("использование: qty <dish_id> <количество>")
	}
	dishID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fail("неверный id блюда: %s", args[0])
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		fail("неверное количество: %s", args[1])
	}
	cart, err := manager.UpdateQuantity(dishID, quantity)
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("итого: %.2f\n", cart.Total())
}

func runOrder(ctx context.Context, manager *orders.Manager, store localstore.Store, args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	address := fs.String("address", "", "адрес доставки")
	deliveryType := fs.String("delivery", string(models.DeliveryCourier), "способ получения: delivery или pickup")
	payment := fs.String("payment", string(models.PaymentCash), "способ оплаты: cash, card, sberpay, sbp")
	deliveryTime := fs.String("time", "", "желаемое время")
	comment := fs.String("comment", "", "комментарий к заказу")
	utensils := fs.Int("utensils", 0, "количество приборов")
	name := fs.String("name", "", "имя получателя")
	phone := fs.String("phone", "", "телефон получателя")
	_ = fs.Parse(args)

	checkout := orders.Checkout{
		PaymentMethod:   models.PaymentMethod(*payment),
		DeliveryType:    models.DeliveryType(*deliveryType),
		DeliveryAddress: *address,
		DeliveryTime:    *deliveryTime,
		Comments:        *comment,
		UtensilsCount:   *utensils,
		UserName:        *name,
		UserPhone:       *phone,
	}
	if sess := loadSession(store); sess != nil && sess.User != nil {
		checkout.UserUID = sess.User.UID
		if checkout.UserName == "" {
			checkout.UserName = sess.User.Name
		}
		if checkout.UserPhone == "" {
			checkout.UserPhone = sess.User.Phone
		}
	}

	order, err := manager.CreateOrder(ctx, checkout)
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("заказ %s, статус %s\n", order.ID, order.Status)
	if !order.Synced {
		fmt.Println("сервер недоступен, заказ будет отправлен позже")
	}
	if order.PaymentURL != "" {
		fmt.Printf("оплата: %s\n", order.PaymentURL)
	}
}

func runOrders(manager *orders.Manager) {
	list, err := manager.Orders()
	if err != nil {
		fail("%v", err)
	}
	if len(list) == 0 {
		fmt.Println("заказов нет")
		return
	}
	for _, order := range list {
		sync := "синхронизирован"
		if !order.Synced {
			sync = "не синхронизирован"
		}
		fmt.Printf("  %s  %s  %.2f  %s  %s\n",
			order.ID, order.CreatedAt.Format("2006-01-02 15:04"), order.Total, order.Status, sync)
	}
}

func runStatus(ctx context.Context, manager *orders.Manager, args []string) {
	if len(args) < 2 {
		fail("использование: status <order_id> <статус>")
	}
	order, err := manager.UpdateOrderStatus(ctx, args[0], models.OrderStatus(args[1]))
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("заказ %s: %s\n", order.ID, order.Status)
}

func runCancel(ctx context.Context, manager *orders.Manager, args []string) {
	if len(args) < 1 {
		fail("использование: cancel <order_id> [причина]")
	}
	reason := ""
	if len(args) > 1 {
		reason = args[1]
	}
	order, err := manager.CancelOrder(ctx, args[0], reason)
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("заказ %s отменён: %s\n", order.ID, order.CancelReason)
}

func runLogin(ctx context.Context, client *api.Client, args []string) {
	if len(args) < 1 {
		fail("использование: login <телефон>")
	}
	status, err := client.SendSMS(ctx, args[0])
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("код отправлен: %s\n", status)
}

func runVerify(ctx context.Context, client *api.Client, store localstore.Store, args []string) {
	if len(args) < 2 {
		fail("использование: verify <телефон> <код>")
	}
	user, err := client.VerifySMS(ctx, args[0], args[1])
	if err != nil {
		fail("%v", err)
	}
	if err := store.Set(sessionKey, session{Token: client.Token(), User: user}); err != nil {
		fail("%v", err)
	}
	fmt.Printf("вход выполнен: %s\n", user.Phone)
}

func usage() {
	fmt.Fprintln(os.Stderr, `использование: client [флаги] <команда>

команды:
  menu                       показать меню
  cart                       показать корзину
  add <dish_id> [кол-во]     добавить блюдо в корзину
  qty <dish_id> <кол-во>     изменить количество, 0 удаляет позицию
  clear                      очистить корзину
  order [флаги]              оформить заказ из корзины
  orders                     показать заказы устройства
  status <id> <статус>       перевести заказ в новый статус
  cancel <id> [причина]      отменить заказ
  login <телефон>            запросить SMS-код
  verify <телефон> <код>     подтвердить код и войти`)
	flag.PrintDefaults()
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
