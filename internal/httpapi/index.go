package httpapi

const indexHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>camwatch</title>
<style>
body { font-family: sans-serif; background: #111; color: #eee; margin: 1em; }
img { display: block; width: 640px; height: 360px; background: #000; }
#status { margin: .5em 0; }
button { margin-right: .5em; }
</style>
</head>
<body>
<img src="/stream.mjpg" alt="camera">
<div id="status">Stopped</div>
<button id="start">Start</button><button id="stop">Stop</button>
<script>
const status = document.getElementById("status");
const startBtn = document.getElementById("start");
const stopBtn = document.getElementById("stop");
async function refresh() {
  try {
    const s = await (await fetch("/status")).json();
    status.textContent = s.message + (s.running ? " | persons: " + s.person_count : "");
    startBtn.disabled = s.running;
    stopBtn.disabled = !s.running;
  } catch (e) {
    status.textContent = "server unreachable";
  }
}
startBtn.onclick = () => fetch("/monitor/start", {method: "POST"}).then(refresh);
stopBtn.onclick = () => fetch("/monitor/stop", {method: "POST"}).then(refresh);
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/events");
ws.onmessage = refresh;
setInterval(refresh, 2000);
refresh();
</script>
</body>
</html>
`
